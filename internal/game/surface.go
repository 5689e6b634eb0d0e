package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// imageSurface paints wave paths onto the ebiten screen of the current frame.
type imageSurface struct {
	target   *ebiten.Image
	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

func (s *imageSurface) bind(target *ebiten.Image) { s.target = target }

func (s *imageSurface) Clear(width, height int) {
	if s.target == nil {
		return
	}
	b := s.target.Bounds()
	r := image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Min.Y+height).Intersect(b)
	if r.Empty() {
		return
	}
	s.target.SubImage(r).(*ebiten.Image).Clear()
}

func (s *imageSurface) BeginPath() { s.path = vector.Path{} }

func (s *imageSurface) MoveTo(x, y float64) { s.path.MoveTo(float32(x), float32(y)) }

func (s *imageSurface) LineTo(x, y float64) { s.path.LineTo(float32(x), float32(y)) }

func (s *imageSurface) ClosePath() { s.path.Close() }

func (s *imageSurface) Fill(c color.Color) {
	if s.target == nil {
		return
	}
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	if len(s.indices) == 0 {
		return
	}

	r, g, b, a := c.RGBA()
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = float32(r) / 0xffff
		s.vertices[i].ColorG = float32(g) / 0xffff
		s.vertices[i].ColorB = float32(b) / 0xffff
		s.vertices[i].ColorA = float32(a) / 0xffff
	}

	op := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	}
	s.target.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}
