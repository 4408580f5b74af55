// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"fmt"
	"sync"
	"testing"
)

func newTitleTrie() *Trie {
	t := NewTrie()
	t.Insert("the hobbit", "The Hobbit", 40)
	t.Insert("the hitchhiker's guide to the galaxy", "The Hitchhiker's Guide to the Galaxy", 25)
	t.Insert("the handmaid's tale", "The Handmaid's Tale", 25)
	t.Insert("dune", "Dune", 60)
	return t
}

func TestTrie_Insert(t *testing.T) {
	t.Parallel()

	tr := NewTrie()
	if !tr.Insert("Dune", "Dune", 3) {
		t.Error("first insert should report new key")
	}
	if tr.Insert("DUNE", "DUNE", 2) {
		t.Error("re-insert with different case should hit the same key")
	}
	if tr.Insert("", "", 1) {
		t.Error("empty key should be rejected")
	}
	if got := tr.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}

	res := tr.PrefixSearch("du", 0)
	if len(res) != 1 || res[0].Value != "Dune" || res[0].Weight != 5 {
		t.Errorf("PrefixSearch = %+v, want [{Dune 5}]", res)
	}
}

func TestTrie_PrefixSearch(t *testing.T) {
	t.Parallel()

	tr := newTitleTrie()

	tests := []struct {
		prefix string
		limit  int
		want   []string
	}{
		{prefix: "the h", limit: 0, want: []string{
			"The Hobbit",
			"The Handmaid's Tale",
			"The Hitchhiker's Guide to the Galaxy",
		}},
		{prefix: "THE H", limit: 2, want: []string{"The Hobbit", "The Handmaid's Tale"}},
		{prefix: "dun", limit: 10, want: []string{"Dune"}},
		{prefix: "xyz", limit: 10, want: nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.prefix, tt.limit), func(t *testing.T) {
			t.Parallel()

			got := tr.PrefixSearch(tt.prefix, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("PrefixSearch(%q) = %+v, want %v", tt.prefix, got, tt.want)
			}
			for i := range tt.want {
				if got[i].Value != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i].Value, tt.want[i])
				}
			}
		})
	}
}

func TestTrie_Concurrent(t *testing.T) {
	t.Parallel()

	tr := NewTrie()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("title %d-%d", i, j)
				tr.Insert(key, key, 1)
				_ = tr.PrefixSearch("title", 5)
			}
		}(i)
	}
	wg.Wait()

	if got := tr.Size(); got != 800 {
		t.Errorf("Size() = %d, want 800", got)
	}
}
