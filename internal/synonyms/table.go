// Package synonyms provides the shared, read-only synonym table used for
// query expansion. The table is a WordNet export loaded once at process
// start; query-time access is a plain map lookup.
package synonyms

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Table maps a word to its single-word synonyms.
type Table struct {
	entries map[string][]string
}

// NewTable wraps an already-built synonym map, dropping multi-word phrases.
func NewTable(entries map[string][]string) *Table {
	cleaned := make(map[string][]string, len(entries))
	for word, syns := range entries {
		kept := make([]string, 0, len(syns))
		for _, syn := range syns {
			syn = strings.ToLower(strings.TrimSpace(syn))
			if syn == "" || strings.ContainsAny(syn, " -") {
				continue
			}
			kept = append(kept, syn)
		}
		if len(kept) > 0 {
			cleaned[strings.ToLower(word)] = kept
		}
	}
	return &Table{entries: cleaned}
}

// Load reads a JSON file of {"word": ["synonym", ...]} entries.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading synonym table %s: %w", path, err)
	}
	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing synonym table %s: %w", path, err)
	}
	return NewTable(entries), nil
}

// Lookup returns the synonyms for a word, or nil when none are known.
func (t *Table) Lookup(word string) []string {
	return t.entries[word]
}

// Expand returns the union of the given tokens and every known single-word
// synonym of each. Duplicates collapse; order is not significant.
func (t *Table) Expand(tokens []string) map[string]struct{} {
	expanded := make(map[string]struct{}, len(tokens)*2)
	for _, token := range tokens {
		expanded[token] = struct{}{}
		for _, syn := range t.Lookup(token) {
			expanded[syn] = struct{}{}
		}
	}
	return expanded
}

// Size returns the number of words with at least one synonym.
func (t *Table) Size() int {
	return len(t.entries)
}
