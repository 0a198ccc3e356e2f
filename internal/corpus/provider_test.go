package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeCorpusFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileProviderEach(t *testing.T) {
	path := writeCorpusFile(t, `{"doc_id":"2701_0","tokens":["call","me","ishmael"]}
{"doc_id":"2701_1","tokens":["the","whale"]}
`)
	prov := NewFileProvider(path)

	var got []Document
	err := prov.Each(context.Background(), func(doc Document) error {
		got = append(got, doc)
		return nil
	})
	if err != nil {
		t.Fatalf("Each returned error: %v", err)
	}
	want := []Document{
		{ID: "2701_0", Tokens: []string{"call", "me", "ishmael"}},
		{ID: "2701_1", Tokens: []string{"the", "whale"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("documents mismatch (-want +got):\n%s", diff)
	}
	if prov.Skipped() != 0 {
		t.Errorf("Skipped = %d, want 0", prov.Skipped())
	}
}

func TestFileProviderSkipsMalformedRecords(t *testing.T) {
	path := writeCorpusFile(t, `{"doc_id":"good_0","tokens":["a"]}
this is not json
{"tokens":["missing","id"]}
{"doc_id":"good_1","tokens":["b"]}
`)
	prov := NewFileProvider(path)

	var ids []string
	err := prov.Each(context.Background(), func(doc Document) error {
		ids = append(ids, doc.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("Each returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"good_0", "good_1"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if prov.Skipped() != 2 {
		t.Errorf("Skipped = %d, want 2", prov.Skipped())
	}
}

func TestFileProviderMissingFile(t *testing.T) {
	prov := NewFileProvider(filepath.Join(t.TempDir(), "nope.jsonl"))
	err := prov.Each(context.Background(), func(Document) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}
