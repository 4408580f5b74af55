// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package cache holds in-memory lookup structures.
package cache

import (
	"sort"
	"strings"
	"sync"
)

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
	value    string // display form of the key ending here
	weight   int
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Trie is a thread-safe, case-insensitive prefix tree. Each key stores a
// display value and a weight; prefix queries return the heaviest entries
// first.
//
// Lookups cost O(len(prefix)) to reach the subtree plus a walk of that
// subtree, so very short prefixes over large tries should be avoided by
// the caller (the search layer enforces a minimum query length).
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
	size int
}

// TrieResult is one prefix match.
type TrieResult struct {
	Value  string
	Weight int
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

// Insert stores value under the lowercased key. Re-inserting a key keeps
// the first display value and adds the weights.
// It reports whether the key was new.
func (t *Trie) Insert(key, value string, weight int) bool {
	key = strings.ToLower(key)
	if key == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, r := range key {
		next := n.children[r]
		if next == nil {
			next = newTrieNode()
			n.children[r] = next
		}
		n = next
	}

	n.weight += weight
	if n.terminal {
		return false
	}
	n.terminal = true
	n.value = value
	t.size++
	return true
}

// PrefixSearch returns up to limit entries whose key starts with prefix,
// ordered by weight descending and then value ascending. limit <= 0
// returns every match.
func (t *Trie) PrefixSearch(prefix string, limit int) []TrieResult {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.find(strings.ToLower(prefix))
	if n == nil {
		return nil
	}

	var out []TrieResult
	collect(n, &out)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// find must be called with mu held.
func (t *Trie) find(key string) *trieNode {
	n := t.root
	for _, r := range key {
		n = n.children[r]
		if n == nil {
			return nil
		}
	}
	return n
}

func collect(n *trieNode, out *[]TrieResult) {
	if n.terminal {
		*out = append(*out, TrieResult{Value: n.value, Weight: n.weight})
	}
	for _, c := range n.children {
		collect(c, out)
	}
}

// Size is the number of distinct keys.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}
