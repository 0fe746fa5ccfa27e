package nav

import "testing"

func TestHistoryPushBack(t *testing.T) {
	h := NewHistory()
	if h.Len() != 0 || h.Top() != "" {
		t.Fatal("new history should be empty")
	}

	h.Push("a")
	h.Push("b")
	if h.Top() != "b" || h.Len() != 2 {
		t.Fatalf("Top = %q, Len = %d; want b, 2", h.Top(), h.Len())
	}

	h.Back()
	if h.Top() != "a" || h.Len() != 1 {
		t.Fatalf("after Back: Top = %q, Len = %d; want a, 1", h.Top(), h.Len())
	}
}

func TestHistoryBackOnEmptyIsNoop(t *testing.T) {
	h := NewHistory()
	notified := false
	h.Subscribe(func(PopNotification) { notified = true })

	h.Back()
	if notified {
		t.Error("Back on an empty stack must not notify")
	}
}

func TestHistoryPopNotification(t *testing.T) {
	h := NewHistory()
	h.Push("parent")
	h.Push("child")

	var got []PopNotification
	h.Subscribe(func(n PopNotification) { got = append(got, n) })

	h.Back()
	h.Back()

	want := []PopNotification{
		{Popped: "child", Top: "parent"},
		{Popped: "parent", Top: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHistoryUnsubscribe(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	h.Push("b")

	count := 0
	unsub := h.Subscribe(func(PopNotification) { count++ })

	h.Back()
	unsub()
	h.Back()

	if count != 1 {
		t.Errorf("subscriber fired %d times, want 1", count)
	}
}

func TestHistoryUnsubscribeDuringNotification(t *testing.T) {
	h := NewHistory()
	h.Push("a")

	var unsub func()
	count := 0
	unsub = h.Subscribe(func(PopNotification) {
		count++
		unsub()
	})

	h.Back()
	h.Push("b")
	h.Back()

	if count != 1 {
		t.Errorf("self-unsubscribing listener fired %d times, want 1", count)
	}
}
