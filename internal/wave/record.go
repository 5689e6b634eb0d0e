package wave

import "image/color"

// Point is a path vertex in surface pixels.
type Point struct {
	X, Y float64
}

// Path is one filled region as issued to a Surface.
type Path struct {
	Points []Point
	Closed bool
	Color  color.Color
	Filled bool
}

// Recorder is a Surface that keeps the paths of the most recent frame.
// Clears counts every frame; Fills counts fills since the last clear.
type Recorder struct {
	Clears  int
	Fills   int
	Width   int
	Height  int
	Paths   []Path
	current *Path
}

func (r *Recorder) Clear(width, height int) {
	r.Clears++
	r.Width, r.Height = width, height
	r.Fills = 0
	r.Paths = r.Paths[:0]
	r.current = nil
}

func (r *Recorder) BeginPath() {
	r.Paths = append(r.Paths, Path{})
	r.current = &r.Paths[len(r.Paths)-1]
}

func (r *Recorder) MoveTo(x, y float64) {
	if r.current == nil {
		r.BeginPath()
	}
	r.current.Points = append(r.current.Points, Point{X: x, Y: y})
}

func (r *Recorder) LineTo(x, y float64) { r.MoveTo(x, y) }

func (r *Recorder) ClosePath() {
	if r.current != nil {
		r.current.Closed = true
	}
}

func (r *Recorder) Fill(c color.Color) {
	r.Fills++
	if r.current != nil {
		r.current.Color = c
		r.current.Filled = true
	}
}

// Curve returns the sampled upper edge of a recorded path, that is every
// point except the two bottom corners appended before closing.
func (p Path) Curve() []Point {
	if len(p.Points) < 3 {
		return nil
	}
	return p.Points[:len(p.Points)-2]
}
