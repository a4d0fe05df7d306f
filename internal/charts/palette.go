package charts

import "github.com/wcharczuk/go-chart/v2/drawing"

// Palette is a two-stop colour ramp, optionally through a midpoint.
type Palette struct {
	From, Mid, To drawing.Color
}

var (
	// CoolWarm runs blue to red through a neutral grey.
	CoolWarm = Palette{
		From: drawing.ColorFromHex("3b4cc0"),
		Mid:  drawing.ColorFromHex("dddddd"),
		To:   drawing.ColorFromHex("b40426"),
	}
	// Viridis runs purple to yellow through teal.
	Viridis = Palette{
		From: drawing.ColorFromHex("440154"),
		Mid:  drawing.ColorFromHex("21918c"),
		To:   drawing.ColorFromHex("fde725"),
	}
)

// Colors spreads n colours evenly along the ramp.
func (p Palette) Colors(n int) []drawing.Color {
	colors := make([]drawing.Color, n)
	for i := range colors {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		if t < 0.5 {
			colors[i] = lerp(p.From, p.Mid, t*2)
		} else {
			colors[i] = lerp(p.Mid, p.To, (t-0.5)*2)
		}
	}
	return colors
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return drawing.Color{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: 255,
	}
}
