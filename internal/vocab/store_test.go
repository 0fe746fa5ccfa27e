package vocab

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vocab.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndHasWord(t *testing.T) {
	s := openTestStore(t)

	has, err := s.HasWord("hund")
	if err != nil {
		t.Fatalf("has word: %v", err)
	}
	if has {
		t.Fatal("empty store reports a word as saved")
	}

	if err := s.AddWord("Hund", "Der Hund schläft.", 2); err != nil {
		t.Fatalf("add word: %v", err)
	}

	// Lookups are case-insensitive.
	has, err = s.HasWord("HUND")
	if err != nil {
		t.Fatalf("has word: %v", err)
	}
	if !has {
		t.Error("saved word not found")
	}
}

func TestAddWordOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddWord("gato", "El gato duerme.", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddWord("gato", "Un gato negro.", 4); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	words, err := s.Words()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("words = %d, want 1", len(words))
	}
	if words[0].Sentence != "Un gato negro." || words[0].Level != 4 {
		t.Errorf("got %+v, want updated sentence and level", words[0])
	}
}

func TestUpdateLevel(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpdateLevel("missing", 3); err == nil {
		t.Error("updating an unsaved word should fail")
	}

	if err := s.AddWord("mot", "Un mot.", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.UpdateLevel("mot", 9); err != nil {
		t.Fatalf("update: %v", err)
	}

	words, err := s.Words()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if words[0].Level != 5 {
		t.Errorf("level = %d, want clamped 5", words[0].Level)
	}
}

func TestAddRejectsEmptyWord(t *testing.T) {
	s := openTestStore(t)
	if err := s.AddWord("   ", "sentence", 1); err == nil {
		t.Error("blank word should be rejected")
	}
}
