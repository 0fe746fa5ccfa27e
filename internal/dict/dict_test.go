package dict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupParsesFirstEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/entries/en/ubiquitous" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"word":"ubiquitous","phonetic":"/juːˈbɪkwɪtəs/","meanings":[
			{"partOfSpeech":"adjective","definitions":[{"definition":"Being everywhere at once.","example":"ubiquitous smartphones"}]}
		]},{"word":"ubiquitous","meanings":[]}]`))
	}))
	defer srv.Close()

	entry, err := NewClient(srv.URL).Lookup(context.Background(), "ubiquitous", "en")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry == nil {
		t.Fatal("Lookup returned nil entry")
	}
	if entry.Phonetic != "/juːˈbɪkwɪtəs/" {
		t.Errorf("phonetic = %q", entry.Phonetic)
	}
	if len(entry.Meanings) != 1 || entry.Meanings[0].PartOfSpeech != "adjective" {
		t.Errorf("meanings = %+v", entry.Meanings)
	}
	if entry.Meanings[0].Definitions[0].Example != "ubiquitous smartphones" {
		t.Errorf("example = %q", entry.Meanings[0].Definitions[0].Example)
	}
}

func TestLookupMissIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"No Definitions Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	entry, err := NewClient(srv.URL).Lookup(context.Background(), "zzzz", "en")
	if err != nil {
		t.Fatalf("a miss must not be an error, got %v", err)
	}
	if entry != nil {
		t.Fatalf("entry = %+v, want nil", entry)
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Lookup(context.Background(), "word", "en"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestNewClientNormalizesURL(t *testing.T) {
	c := NewClient("api.dictionaryapi.dev/")
	if c.baseURL != "https://api.dictionaryapi.dev" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
