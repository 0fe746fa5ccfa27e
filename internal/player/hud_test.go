package player

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61.4, "1:01"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromWindow(t *testing.T) {
	x, y := FromWindow(640, 360, 1280, 720)
	if x != 960 || y != 540 {
		t.Errorf("FromWindow = (%v, %v), want (960, 540)", x, y)
	}
	// Degenerate window sizes pass coordinates through.
	x, y = FromWindow(10, 20, 0, 0)
	if x != 10 || y != 20 {
		t.Errorf("FromWindow with zero window = (%v, %v)", x, y)
	}
}

func TestOnTrack(t *testing.T) {
	if !OnTrack(TrackLeft+10, TrackY) {
		t.Error("point on the bar should hit the track")
	}
	if !OnTrack(TrackLeft+10, TrackY-TrackHitPad) {
		t.Error("the hit band extends above the drawn bar")
	}
	if OnTrack(TrackLeft-1, TrackY) {
		t.Error("point left of the track should miss")
	}
	if OnTrack(TrackLeft+10, TrackY+TrackHitPad+1) {
		t.Error("point below the hit band should miss")
	}
}

func TestSubtitleWordBoxes(t *testing.T) {
	h := &HUD{}
	out := h.renderSubtitle([]string{"Der", "Hund", "schläft"})
	if out == "" {
		t.Fatal("expected rendered subtitle output")
	}
	boxes := h.WordBoxes()
	if len(boxes) != 3 {
		t.Fatalf("word boxes = %d, want 3", len(boxes))
	}

	// Boxes tile left to right without overlap.
	for i := 1; i < len(boxes); i++ {
		if boxes[i].X < boxes[i-1].X+boxes[i-1].W-1 {
			t.Errorf("box %d overlaps box %d", i, i-1)
		}
	}

	// The layout is centered in the HUD space.
	left := boxes[0].X
	right := boxes[2].X + boxes[2].W
	center := (left + right) / 2
	if center < HUDWidth/2-1 || center > HUDWidth/2+1 {
		t.Errorf("line center = %v, want ~%v", center, HUDWidth/2)
	}

	mid := boxes[1]
	if got, ok := h.WordAt(mid.X+mid.W/2, mid.Y+mid.H/2); !ok || got.Word != "Hund" {
		t.Errorf("WordAt(center of box 1) = %+v, %v", got, ok)
	}
	if _, ok := h.WordAt(10, 10); ok {
		t.Error("WordAt far from the line should miss")
	}

	// An empty line clears the boxes.
	if out := h.renderSubtitle(nil); out != "" {
		t.Error("empty line should render nothing")
	}
	if len(h.WordBoxes()) != 0 {
		t.Error("empty line should clear the word boxes")
	}
}
