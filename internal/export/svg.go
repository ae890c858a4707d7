package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/georgpou/particlebox/internal/storage"
)

// strokes are cycled across particle paths.
var strokes = []string{"#00ff00", "#00ccff", "#ff00ff", "#ffaa00", "#ff4444", "#cccccc"}

// SVG draws every particle trajectory over the unit box. The box maps
// onto a square viewport with a margin, Y pointing up.
func SVG(w io.Writer, run *storage.Run, size int) error {
	if size <= 0 {
		size = 800
	}
	margin := float64(size) * 0.05
	scale := float64(size) - 2*margin

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444444" stroke-width="1"/>
`, margin, margin, scale, scale))

	count := 0
	if len(run.Positions) > 0 {
		count = len(run.Positions[0]) / 2
	}
	for i := 0; i < count; i++ {
		path := run.Trajectory(i)
		if len(path) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokes[i%len(strokes)]))
		for j, p := range path {
			x := margin + p[0]*scale
			y := margin + (1-p[1])*scale
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
