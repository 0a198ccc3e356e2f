package synonyms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewTableDropsMultiWordSynonyms(t *testing.T) {
	table := NewTable(map[string][]string{
		"dread": {"fear", "mortal terror", "scare-word", "  alarm "},
		"empty": {"two words", "a-b"},
	})

	want := []string{"fear", "alarm"}
	if diff := cmp.Diff(want, table.Lookup("dread")); diff != "" {
		t.Errorf("Lookup(dread) mismatch (-want +got):\n%s", diff)
	}
	// Entries whose synonyms were all dropped disappear entirely.
	if got := table.Lookup("empty"); got != nil {
		t.Errorf("Lookup(empty) = %v, want nil", got)
	}
	if table.Size() != 1 {
		t.Errorf("Size = %d, want 1", table.Size())
	}
}

func TestNewTableLowercasesKeys(t *testing.T) {
	table := NewTable(map[string][]string{"Dread": {"Fear"}})
	if got := table.Lookup("dread"); len(got) != 1 || got[0] != "fear" {
		t.Errorf("Lookup(dread) = %v, want [fear]", got)
	}
}

func TestExpandUnion(t *testing.T) {
	table := NewTable(map[string][]string{
		"joy":   {"delight", "bliss"},
		"dread": {"fear"},
	})

	got := table.Expand([]string{"joy", "dread", "whale"})
	want := map[string]struct{}{
		"joy": {}, "delight": {}, "bliss": {},
		"dread": {}, "fear": {},
		"whale": {},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandDeduplicates(t *testing.T) {
	table := NewTable(map[string][]string{
		"joy":   {"bliss"},
		"bliss": {"joy"},
	})
	got := table.Expand([]string{"joy", "bliss"})
	if len(got) != 2 {
		t.Errorf("Expand = %v, want exactly joy and bliss", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.json")
	payload := `{"dread": ["fear", "mortal terror"], "joy": ["bliss"]}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Size() != 2 {
		t.Errorf("Size = %d, want 2", table.Size())
	}
	if diff := cmp.Diff([]string{"fear"}, table.Lookup("dread"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Lookup(dread) mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
