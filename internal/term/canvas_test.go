package term

import (
	"strings"
	"testing"
)

func TestCanvasSetAt(t *testing.T) {
	c := NewCanvas(4, 4)
	pts := [][2]int{{0, 0}, {7, 15}, {3, 9}}
	for _, p := range pts {
		c.Set(p[0], p[1])
	}
	for _, p := range pts {
		if !c.At(p[0], p[1]) {
			t.Errorf("At(%d,%d) = false after Set", p[0], p[1])
		}
	}
	if c.At(1, 1) {
		t.Error("At(1,1) = true for untouched subpixel")
	}
}

func TestCanvasOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0)
	c.Set(0, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			if c.At(x, y) {
				t.Fatalf("subpixel (%d,%d) lit by out-of-range Set", x, y)
			}
		}
	}
}

func TestCanvasUnset(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(1, 2)
	c.Set(0, 2)
	c.Unset(1, 2)
	if c.At(1, 2) {
		t.Error("subpixel still lit after Unset")
	}
	if !c.At(0, 2) {
		t.Error("Unset cleared a sibling dot")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.FillCircle(3, 6, 2)
	c.Clear()
	for y := 0; y < c.Height*4; y++ {
		for x := 0; x < c.Width*2; x++ {
			if c.At(x, y) {
				t.Fatalf("subpixel (%d,%d) lit after Clear", x, y)
			}
		}
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 19, 39)
	if !c.At(0, 0) || !c.At(19, 39) {
		t.Error("line endpoints not lit")
	}

	c.Clear()
	c.DrawLine(0, 5, 19, 5)
	for x := 0; x < 20; x++ {
		if !c.At(x, 5) {
			t.Errorf("horizontal line missing subpixel %d", x)
		}
	}
}

func TestCanvasDrawCircle(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawCircle(10, 20, 5)
	for _, p := range [][2]int{{15, 20}, {5, 20}, {10, 25}, {10, 15}} {
		if !c.At(p[0], p[1]) {
			t.Errorf("cardinal point (%d,%d) not on circle", p[0], p[1])
		}
	}
	if c.At(10, 20) {
		t.Error("circle outline lit its own center")
	}

	c.Clear()
	c.DrawCircle(4, 4, 0)
	if !c.At(4, 4) {
		t.Error("zero radius should light the center subpixel")
	}
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 10)
	c.FillCircle(10, 20, 3)
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			want := dx*dx+dy*dy <= 9
			if got := c.At(10+dx, 20+dy); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", 10+dx, 20+dy, got, want)
			}
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("String produced %d rows, want 3", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 5 {
			t.Errorf("row %d has %d cells, want 5", i, n)
		}
	}
}
