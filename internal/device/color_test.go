package device

import "testing"

func TestLookupColor(t *testing.T) {
	tests := []struct {
		name   string
		want   Color
		wantOK bool
	}{
		{"RED", Color{255, 0, 0}, true},
		{"red", Color{255, 0, 0}, true},
		{"GreenYellow", Color{173, 255, 47}, true},
		{"black", Color{0, 0, 0}, true},
		{"TEAL", Color{}, false},
		{"", Color{}, false},
		{" RED", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupColor(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("LookupColor(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("LookupColor(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	p := Palette()
	if len(p) != 19 {
		t.Fatalf("Palette() len = %d, want 19", len(p))
	}

	seen := make(map[string]bool)
	for _, nc := range p {
		if seen[nc.Name] {
			t.Errorf("duplicate palette entry %q", nc.Name)
		}
		seen[nc.Name] = true
		if _, ok := LookupColor(nc.Name); !ok {
			t.Errorf("palette entry %q not resolvable", nc.Name)
		}
	}

	// Mutating the copy must not affect lookups
	p[0].Color = Color{1, 2, 3}
	if c, _ := LookupColor(p[0].Name); c == (Color{1, 2, 3}) {
		t.Error("Palette() returned shared backing array")
	}
}

func TestColorString(t *testing.T) {
	if got := (Color{255, 165, 0}).String(); got != "#FFA500" {
		t.Errorf("String() = %q, want #FFA500", got)
	}
	if got := (Color{999, 0, -1}).String(); got != "rgb(999,0,-1)" {
		t.Errorf("String() = %q, want rgb(999,0,-1)", got)
	}
}
