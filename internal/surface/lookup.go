package surface

import (
	"context"
	"log"

	"github.com/avdias/sublingo/internal/dict"
)

// lookupResult carries one async dictionary resolution back to the frame
// loop. gen ties it to the request that started it.
type lookupResult struct {
	gen   int
	entry *dict.Entry
	err   error
	saved bool
}

// LookupOverlay is the in-place contextual lookup shown while fullscreen:
// a thin state holder for the selected word/sentence pair plus loading and
// saved flags. Lookups and saves are delegated to the external dictionary
// and vocabulary collaborators.
type LookupOverlay struct {
	dict  Dictionary
	vocab VocabularyStore
	lang  string

	visible  bool
	word     string
	sentence string
	entry    *dict.Entry
	loading  bool
	saved    bool
	missing  bool

	gen     int
	results chan lookupResult
}

func NewLookup(d Dictionary, v VocabularyStore, lang string) *LookupOverlay {
	return &LookupOverlay{
		dict:    d,
		vocab:   v,
		lang:    lang,
		results: make(chan lookupResult, 8),
	}
}

// Visible reports whether the overlay is shown.
func (o *LookupOverlay) Visible() bool { return o.visible }

// Loading reports whether a lookup is still in flight.
func (o *LookupOverlay) Loading() bool { return o.loading }

// Word returns the selected surface form.
func (o *LookupOverlay) Word() string { return o.word }

// Sentence returns the sentence the word was clicked in.
func (o *LookupOverlay) Sentence() string { return o.sentence }

// Entry returns the resolved dictionary entry, nil while loading or on miss.
func (o *LookupOverlay) Entry() *dict.Entry { return o.entry }

// Missing reports an explicit "no entry found" state. The word can still be
// saved manually.
func (o *LookupOverlay) Missing() bool { return o.missing }

// Saved reports whether the word is already in the vocabulary store.
func (o *LookupOverlay) Saved() bool { return o.saved }

// Open shows the overlay for a word/sentence pair and starts the async
// lookup. Each open bumps the generation so results for earlier words are
// discarded on arrival.
func (o *LookupOverlay) Open(word, sentence string) {
	o.visible = true
	o.word = word
	o.sentence = sentence
	o.entry = nil
	o.missing = false
	o.saved = false
	o.gen++

	if o.dict == nil {
		o.loading = false
		o.missing = true
		return
	}

	o.loading = true
	gen := o.gen
	go func() {
		entry, err := o.dict.Lookup(context.Background(), word, o.lang)
		saved := false
		if o.vocab != nil {
			if has, verr := o.vocab.HasWord(word); verr == nil {
				saved = has
			}
		}
		select {
		case o.results <- lookupResult{gen: gen, entry: entry, err: err, saved: saved}:
		default:
			// Frame loop gone or saturated; the result is stale either way.
		}
	}()
}

// Update drains finished lookups. Stale results — a different generation,
// or the overlay closed since the request started — are discarded.
func (o *LookupOverlay) Update() {
	for {
		select {
		case res := <-o.results:
			if res.gen != o.gen || !o.visible {
				continue
			}
			o.loading = false
			if res.err != nil {
				// A failed lookup renders as a miss, never an error banner.
				log.Printf("dictionary lookup: %v", res.err)
				o.missing = true
				continue
			}
			if res.entry == nil {
				o.missing = true
				continue
			}
			o.entry = res.entry
			o.saved = res.saved
		default:
			return
		}
	}
}

// Close clears all lookup state and invalidates in-flight requests. It
// deliberately does not touch playback.
func (o *LookupOverlay) Close() {
	o.visible = false
	o.loading = false
	o.word = ""
	o.sentence = ""
	o.entry = nil
	o.missing = false
	o.saved = false
	o.gen++
}

// Save stores the selected word at the given level, or updates the level if
// the word is already saved.
func (o *LookupOverlay) Save(level int) error {
	if o.vocab == nil || o.word == "" {
		return nil
	}
	if o.saved {
		return o.vocab.UpdateLevel(o.word, level)
	}
	if err := o.vocab.AddWord(o.word, o.sentence, level); err != nil {
		return err
	}
	o.saved = true
	return nil
}
