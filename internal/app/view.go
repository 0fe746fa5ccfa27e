package app

import (
	"fmt"

	"github.com/avdias/sublingo/internal/dict"
	"github.com/avdias/sublingo/internal/player"
	"github.com/avdias/sublingo/internal/sheet"
	"github.com/avdias/sublingo/internal/surface"
)

// buildHUDState projects the playback session onto the HUD's render input.
func (g *Game) buildHUDState() player.HUDState {
	s := g.surface

	st := player.HUDState{
		ControlsVisible: s.ControlsVisible(),
		Paused:          g.Player.Paused(),
		Position:        s.DisplayTime(),
		Duration:        g.Player.Duration(),
		Buffered:        s.BufferedFraction(),
		DragActive:      s.DragSeekActive(),
		Volume:          s.Volume(),
		VolumeSlider:    s.VolumeSliderVisible(),
		Speed:           s.Speed(),
		SpeedMenuOpen:   s.SpeedMenuOpen(),
		Speeds:          surface.Speeds,
		SpeedIndex:      g.speedIndex(),
		Accrual:         s.SeekAccrual(),
		AccrualForward:  s.AccrualForward(),
		Lookup:          lookupView(s.Lookup()),
	}
	if st.DragActive {
		st.MarkerX = s.PreviewMarkerX()
	}

	for _, w := range g.subtitleWords {
		st.Subtitle = append(st.Subtitle, w.Display)
	}

	if g.pageSheet != nil && g.pageSheet.State() != sheet.StateClosed {
		st.Sheet = player.SheetView{
			Visible: true,
			Offset:  g.pageSheet.Offset() * player.HUDHeight / float64(g.Height),
			Lookup:  lookupView(g.pageLookup),
		}
	}
	return st
}

// lookupView flattens a lookup overlay into render-ready lines.
func lookupView(o *surface.LookupOverlay) player.LookupView {
	v := player.LookupView{
		Visible: o.Visible(),
		Loading: o.Loading(),
		Missing: o.Missing(),
		Saved:   o.Saved(),
		Word:    o.Word(),
	}
	if !v.Visible {
		return v
	}
	if e := o.Entry(); e != nil {
		v.Phonetic = e.Phonetic
		v.Lines = entryLines(e)
	}
	if o.Sentence() != "" {
		v.Lines = append(v.Lines, "", "“"+o.Sentence()+"”")
	}
	return v
}

// entryLines renders a dictionary entry as plain lines, capped so the
// panel never overflows.
func entryLines(e *dict.Entry) []string {
	var lines []string
	for _, m := range e.Meanings {
		lines = append(lines, m.PartOfSpeech)
		for i, d := range m.Definitions {
			if i >= 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, d.Definition))
			if d.Example != "" {
				lines = append(lines, "     ‣ "+d.Example)
			}
		}
		if len(lines) > 14 {
			break
		}
	}
	return lines
}
