package theme

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"light", Light, false},
		{"Dark", Dark, false},
		{" dark ", Dark, false},
		{"", Light, false},
		{"sepia", Light, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) should be %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestToggle(t *testing.T) {
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("Toggle should switch between light and dark")
	}
	if Light.Icon() == Dark.Icon() {
		t.Error("Light and dark should have different icons")
	}
}

func TestPalette(t *testing.T) {
	light := For(Light)
	dark := For(Dark)

	if light.Background.Hex() != "#ffffff" || light.Text.Hex() != "#000000" {
		t.Errorf("Light palette should be black on white, got %s on %s", light.Text.Hex(), light.Background.Hex())
	}
	if dark.Background.Hex() != "#000000" || dark.Key.Hex() != "#333333" {
		t.Errorf("Dark palette has unexpected colours %s / %s", dark.Background.Hex(), dark.Key.Hex())
	}
	if light.Operator.Hex() != "#ff9500" || dark.Operator != light.Operator {
		t.Error("Both palettes should share the orange operator colour")
	}

	_, _, lText := light.Text.Hsl()
	_, _, lMuted := light.Muted.Hsl()
	_, _, lBg := light.Background.Hsl()
	if !(lText < lMuted && lMuted < lBg) {
		t.Errorf("Muted colour should sit between text and background, got L=%.2f", lMuted)
	}
}

func TestPressed(t *testing.T) {
	p := For(Light)
	if p.Key.Hex() == Pressed(p.Key).Hex() {
		t.Error("Pressed colour should differ from the key colour")
	}
	_, _, before := p.Key.Hsl()
	_, _, after := Pressed(p.Key).Hsl()
	if after >= before {
		t.Errorf("Pressing a light key should darken it, got %.2f -> %.2f", before, after)
	}
}
