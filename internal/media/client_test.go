package media

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jellyfin.example.com", "https://jellyfin.example.com"},
		{"http://192.168.1.5:8096/", "http://192.168.1.5:8096"},
		{"  https://media.example.com//  ", "https://media.example.com"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTicks(t *testing.T) {
	if got := Ticks(1.5); got != 15_000_000 {
		t.Errorf("Ticks(1.5) = %d, want 15000000", got)
	}
}
