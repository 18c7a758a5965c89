package theme

import "testing"

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", Dark, false},
		{"dark", Dark, false},
		{"light", Light, false},
		{"sepia", Dark, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMode(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	if Dark.Toggle() != Light || Light.Toggle() != Dark {
		t.Error("Toggle should swap modes")
	}
	if Dark.Toggle().Toggle() != Dark {
		t.Error("double toggle should be identity")
	}
}

func TestBodyClass(t *testing.T) {
	if Dark.BodyClass() != "dark-mode" {
		t.Errorf("Dark.BodyClass() = %q", Dark.BodyClass())
	}
	if Light.BodyClass() != "light-mode" {
		t.Errorf("Light.BodyClass() = %q", Light.BodyClass())
	}
}

func TestPalettesDiffer(t *testing.T) {
	if Dark.Palette() == Light.Palette() {
		t.Error("dark and light palettes should differ")
	}
	if Dark.Palette().Foreground != "255" {
		t.Errorf("dark foreground = %q, want 255", Dark.Palette().Foreground)
	}
}
