package pipeline

import (
	"fmt"
	"math"
)

// palette is the categorical palette of colors panels and legends.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

func categoryColor(i int) string { return palette[i%len(palette)] }

// sequential maps t in [0, 1] from a light to a dark blue.
func sequential(t float64) string {
	if math.IsNaN(t) {
		return "#dddddd"
	}
	t = math.Max(0, math.Min(1, t))
	lo := [3]float64{0xf7, 0xfb, 0xff}
	hi := [3]float64{0x08, 0x30, 0x6b}
	var c [3]int
	for i := range c {
		c[i] = int(math.Round(lo[i] + t*(hi[i]-lo[i])))
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
