// Package nav wraps the platform back-navigation stack behind a small
// adapter so sheet controllers never touch the ambient history directly.
// Entries are tagged with per-instance tokens; pop notifications report the
// resulting stack top so a controller can tell whether its own entry was the
// one removed.
package nav

// Tag identifies the owner of a history entry. Empty means "no entry".
type Tag string

// PopNotification describes one entry leaving the stack.
type PopNotification struct {
	Popped Tag // tag of the entry that was removed
	Top    Tag // tag of the resulting stack top, "" when the stack is empty
}

// Stack is the back-navigation contract consumed by sheet controllers.
// Push adds a tagged entry, Back removes the topmost one, and Subscribe
// registers a listener for pop notifications. The returned func removes the
// subscription.
type Stack interface {
	Push(tag Tag)
	Back()
	Subscribe(fn func(PopNotification)) (unsubscribe func())
	Top() Tag
	Len() int
}

// History is the in-memory Stack used by the application and by tests.
// It mirrors platform history semantics: pops only ever come off the top,
// whether triggered programmatically (Back) or by a platform back gesture
// routed here by the host.
type History struct {
	entries []Tag
	subs    map[uint64]func(PopNotification)
	nextSub uint64
}

// NewHistory creates an empty history stack.
func NewHistory() *History {
	return &History{subs: make(map[uint64]func(PopNotification))}
}

// Push appends a tagged entry.
func (h *History) Push(tag Tag) {
	h.entries = append(h.entries, tag)
}

// Back removes the topmost entry and notifies subscribers. On an empty
// stack it is a no-op: there is no history to corrupt.
func (h *History) Back() {
	if len(h.entries) == 0 {
		return
	}
	popped := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]

	// Snapshot subscribers: a controller may unsubscribe itself while
	// handling the notification.
	fns := make([]func(PopNotification), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	n := PopNotification{Popped: popped, Top: h.Top()}
	for _, fn := range fns {
		fn(n)
	}
}

// Subscribe registers a pop listener. Subscribers added or removed during a
// notification take effect on the next pop.
func (h *History) Subscribe(fn func(PopNotification)) func() {
	h.nextSub++
	id := h.nextSub
	h.subs[id] = fn
	return func() { delete(h.subs, id) }
}

// Top returns the tag of the topmost entry, or "" when empty.
func (h *History) Top() Tag {
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries on the stack.
func (h *History) Len() int {
	return len(h.entries)
}
