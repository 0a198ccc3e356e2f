// Package index builds and serves the inverted index, IDF table, and
// document-length table for the tokenized corpus.
package index

// Index is the complete build-once, read-many lexical artifact. After Build
// returns, nothing mutates an Index; concurrent readers need no locking.
type Index struct {
	// Inverted maps term -> doc id -> raw term frequency. Frequencies are
	// strictly positive; absence means zero.
	Inverted map[string]map[string]int `json:"inverted_index"`
	// IDF maps term -> ln(N / (df + 1)), computed once at build time.
	IDF map[string]float64 `json:"idf"`
	// DocLengths maps doc id -> token count, floored to 1.
	DocLengths map[string]int `json:"doc_lengths"`
}

// DocCount returns the number of indexed documents.
func (ix *Index) DocCount() int {
	return len(ix.DocLengths)
}

// Postings returns the doc->frequency map for a term, or nil when the term
// is not indexed. Callers treat nil as an empty posting list, never an error.
func (ix *Index) Postings(term string) map[string]int {
	return ix.Inverted[term]
}

// TermIDF returns the IDF weight for a term, or 0 for unknown terms.
func (ix *Index) TermIDF(term string) float64 {
	return ix.IDF[term]
}

// Length returns the length of a document, or 1 for unknown ids so that
// density and normalization math never divides by zero.
func (ix *Index) Length(docID string) int {
	if n, ok := ix.DocLengths[docID]; ok && n > 0 {
		return n
	}
	return 1
}
