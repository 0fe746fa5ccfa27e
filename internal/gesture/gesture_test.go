package gesture

import (
	"testing"
	"time"
)

func TestZoneAt(t *testing.T) {
	tests := []struct {
		name  string
		x     float64
		width float64
		want  Zone
	}{
		{"far left", 0, 900, ZoneLeft},
		{"left third", 299, 900, ZoneLeft},
		{"center boundary", 300, 900, ZoneCenter},
		{"center", 450, 900, ZoneCenter},
		{"right boundary", 600, 900, ZoneRight},
		{"far right", 899, 900, ZoneRight},
		{"degenerate width", 10, 0, ZoneCenter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZoneAt(tt.x, tt.width); got != tt.want {
				t.Errorf("ZoneAt(%v, %v) = %v, want %v", tt.x, tt.width, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 1); got != 0 {
		t.Errorf("Clamp below = %v, want 0", got)
	}
	if got := Clamp(2, 0, 1); got != 1 {
		t.Errorf("Clamp above = %v, want 1", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp inside = %v, want 0.5", got)
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name           string
		x, left, width float64
		want           float64
	}{
		{"start", 100, 100, 400, 0},
		{"middle", 300, 100, 400, 0.5},
		{"end", 500, 100, 400, 1},
		{"before track", 50, 100, 400, 0},
		{"past track", 700, 100, 400, 1},
		{"zero width", 300, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fraction(tt.x, tt.left, tt.width); got != tt.want {
				t.Errorf("Fraction(%v, %v, %v) = %v, want %v", tt.x, tt.left, tt.width, got, tt.want)
			}
		})
	}
}

func TestIsDoubleTap(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := 300 * time.Millisecond

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"just inside window", 299 * time.Millisecond, true},
		{"exactly at window", 300 * time.Millisecond, false},
		{"well outside window", time.Second, false},
		{"immediate", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDoubleTap(base, base.Add(tt.elapsed), window); got != tt.want {
				t.Errorf("IsDoubleTap(+%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}

	if IsDoubleTap(time.Time{}, base, window) {
		t.Error("zero previous tap time must never classify as a double tap")
	}
}

func TestLockAxis(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Axis
	}{
		{"inside dead zone", 2, 3, AxisNone},
		{"vertical", 1, 10, AxisVertical},
		{"horizontal", 10, 1, AxisHorizontal},
		{"diagonal prefers vertical", 8, 8, AxisVertical},
		{"negative vertical", 0, -20, AxisVertical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LockAxis(tt.dx, tt.dy, 5); got != tt.want {
				t.Errorf("LockAxis(%v, %v, 5) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestSessionDeltaAndVelocity(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Begin(100, 200, start)
	s.Move(110, 280)

	if got := s.DeltaX(); got != 10 {
		t.Errorf("DeltaX = %v, want 10", got)
	}
	if got := s.DeltaY(); got != 80 {
		t.Errorf("DeltaY = %v, want 80", got)
	}

	// 80px over 160ms = 0.5 px/ms
	if got := s.VelocityY(start.Add(160 * time.Millisecond)); got != 0.5 {
		t.Errorf("VelocityY = %v, want 0.5", got)
	}

	// Releasing at the same instant must not divide by zero.
	if got := s.VelocityY(start); got != 0 {
		t.Errorf("VelocityY at start instant = %v, want 0", got)
	}
}
