package sheet

// ModalStack tracks the currently-open sheet instances in mount order and
// routes pointer input to the topmost one, so at most one sheet can be in a
// drag at any time.
type ModalStack struct {
	sheets []*Sheet
}

// Add appends a sheet to the stack. Nesting order is mount/open order.
func (m *ModalStack) Add(s *Sheet) {
	m.sheets = append(m.sheets, s)
}

// Remove takes a sheet off the stack, wherever it sits.
func (m *ModalStack) Remove(s *Sheet) {
	for i, cur := range m.sheets {
		if cur == s {
			m.sheets = append(m.sheets[:i], m.sheets[i+1:]...)
			return
		}
	}
}

// Top returns the most recently added sheet, or nil.
func (m *ModalStack) Top() *Sheet {
	if len(m.sheets) == 0 {
		return nil
	}
	return m.sheets[len(m.sheets)-1]
}

// Len returns the number of tracked sheets.
func (m *ModalStack) Len() int {
	return len(m.sheets)
}

// PointerDown routes a pointer-down to the topmost sheet only.
func (m *ModalStack) PointerDown(x, y float64) {
	if top := m.Top(); top != nil {
		top.PointerDown(x, y)
	}
}

// PointerMove routes a pointer-move to the topmost sheet only.
func (m *ModalStack) PointerMove(x, y float64) {
	if top := m.Top(); top != nil {
		top.PointerMove(x, y)
	}
}

// PointerUp routes a pointer-up to the topmost sheet only.
func (m *ModalStack) PointerUp() {
	if top := m.Top(); top != nil {
		top.PointerUp()
	}
}

// Update advances every tracked sheet; independent instances can each be
// mid-animation simultaneously.
func (m *ModalStack) Update() {
	for _, s := range m.sheets {
		s.Update()
	}
}

// Dragging reports whether any sheet is mid-drag, for host-level scroll
// suppression.
func (m *ModalStack) Dragging() bool {
	for _, s := range m.sheets {
		if s.Dragging() {
			return true
		}
	}
	return false
}
