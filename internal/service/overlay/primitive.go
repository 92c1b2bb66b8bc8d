package overlay

import (
	"image"
	"image/color"
)

// Primitive is a drawable element of an overlay.
type Primitive interface {
	primitive()
}

// Filled is the thickness value that fills a shape instead of outlining it.
const Filled = -1

// Rectangle is an axis-aligned box outline.
type Rectangle struct {
	Min       image.Point
	Max       image.Point
	Color     color.RGBA
	Thickness int
}

// Label is text whose baseline starts at Origin.
type Label struct {
	Origin    image.Point
	Text      string
	Color     color.RGBA
	Scale     float64
	Thickness int
}

// ColorMap selects the pseudo-color palette applied to a mask.
type ColorMap int

const (
	ColorMapJet ColorMap = iota
)

// BinaryMask is a row-major single channel mask whose pixels are 0 or 255.
type BinaryMask struct {
	Width  int
	Height int
	Pix    []uint8
}

// TintedMask is blended over the whole frame: frame*(1-Opacity) + colored*Opacity.
type TintedMask struct {
	Mask     BinaryMask
	ColorMap ColorMap
	Opacity  float64
}

// Point is a circle around Center. Thickness Filled draws a disc.
type Point struct {
	Center    image.Point
	Radius    int
	Color     color.RGBA
	Thickness int
}

// LineSegment joins A and B.
type LineSegment struct {
	A         image.Point
	B         image.Point
	Color     color.RGBA
	Thickness int
}

func (Rectangle) primitive()   {}
func (Label) primitive()       {}
func (TintedMask) primitive()  {}
func (Point) primitive()       {}
func (LineSegment) primitive() {}
