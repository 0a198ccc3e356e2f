// Package emotion implements negation-aware emotion scanning of tokenized
// segments and the corpus-wide density statistics used for z-score
// normalization.
package emotion

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Lexicon maps a token to its emotion tags. It is built once at process
// start and shared read-only across all workers; lookups are plain map
// reads, never per-token reconstruction.
type Lexicon struct {
	tags map[string][]string
}

// NewLexicon wraps an already-built tag table.
func NewLexicon(tags map[string][]string) *Lexicon {
	return &Lexicon{tags: tags}
}

// LoadLexicon reads an NRC-style flat association file with one
// word<TAB>emotion<TAB>flag entry per line. Lines with flag 0, comment
// lines, and blank lines are ignored.
func LoadLexicon(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon %s: %w", path, err)
	}
	defer f.Close()

	tags := make(map[string][]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 || fields[2] != "1" {
			continue
		}
		word := strings.ToLower(fields[0])
		tags[word] = append(tags[word], fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	return &Lexicon{tags: tags}, nil
}

// Tags returns the emotion tags for a token, or nil when the token carries
// no emotional association.
func (l *Lexicon) Tags(token string) []string {
	return l.tags[token]
}

// Size returns the number of distinct tagged words.
func (l *Lexicon) Size() int {
	return len(l.tags)
}
