// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package database

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/folio/internal/config"
)

var (
	snakeSeparators = regexp.MustCompile(`[\-\s]+`)
	snakeCamelCase  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// toSnakeCase converts CSV headers such as "Book-Title" or "BookTitle" to
// "book_title".
func toSnakeCase(s string) string {
	s = snakeSeparators.ReplaceAllString(strings.TrimSpace(s), "_")
	s = snakeCamelCase.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// cleanText trims s, repairs mojibake and unescapes HTML entities.
func cleanText(s string) string {
	return html.UnescapeString(fixMojibake(strings.TrimSpace(s)))
}

// mojibakeCharmaps are tried in order when re-encoding suspected mojibake.
// Windows1251 covers Books.csv read as cp1251, where UTF-8 lead bytes turn
// into Cyrillic letters.
var mojibakeCharmaps = []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1, charmap.Windows1251}

// fixMojibake undoes UTF-8 text that was decoded as a single-byte charset,
// e.g. "FranÃ§ais" or "FranГ§ais" -> "Français". Text that does not
// re-encode to valid UTF-8 is returned unchanged.
func fixMojibake(s string) string {
	if !hasUTF8LeadLookalike(s) {
		return s
	}
	for _, cm := range mojibakeCharmaps {
		b, err := cm.NewEncoder().String(s)
		if err != nil {
			continue
		}
		if b != s && utf8.ValidString(b) {
			return b
		}
	}
	return s
}

// hasUTF8LeadLookalike reports whether s contains a rune that one of the
// mojibake charsets encodes as a UTF-8 multi-byte lead byte (0xC2..0xF4).
// In Latin-1 that is U+00C2..U+00F4; in cp1251 it is U+0412..U+0444.
func hasUTF8LeadLookalike(s string) bool {
	for _, r := range s {
		if (r >= 0xC2 && r <= 0xF4) || (r >= 0x0412 && r <= 0x0444) {
			return true
		}
	}
	return false
}

// decodingReader wraps r so it yields UTF-8 for the named charset.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch config.NormalizeEncoding(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "cp1251", "windows-1251":
		return charmap.Windows1251.NewDecoder().Reader(r), nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}
