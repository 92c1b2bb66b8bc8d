package overlay

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

var colorMaps = map[ColorMap]gocv.ColormapTypes{
	ColorMapJet: gocv.ColormapJet,
}

// Renderer draws overlays onto BGR frames in place.
type Renderer struct {
	font gocv.HersheyFont
}

// NewRenderer creates a renderer using the Hershey simplex font for labels.
func NewRenderer() *Renderer {
	return &Renderer{font: gocv.FontHersheySimplex}
}

// Render applies primitives to frame in the order given. An empty overlay
// leaves the frame untouched.
func (r *Renderer) Render(frame *gocv.Mat, primitives []Primitive) error {
	for i, p := range primitives {
		var err error
		switch p := p.(type) {
		case Rectangle:
			err = gocv.Rectangle(frame, image.Rectangle{Min: p.Min, Max: p.Max}, p.Color, p.Thickness)
		case Label:
			err = gocv.PutText(frame, p.Text, p.Origin, r.font, p.Scale, p.Color, p.Thickness)
		case Point:
			err = gocv.Circle(frame, p.Center, p.Radius, p.Color, p.Thickness)
		case LineSegment:
			err = gocv.Line(frame, p.A, p.B, p.Color, p.Thickness)
		case TintedMask:
			err = r.blend(frame, p)
		default:
			err = fmt.Errorf("unknown primitive %T", p)
		}
		if err != nil {
			return fmt.Errorf("failed to draw primitive %d: %w", i, err)
		}
	}
	return nil
}

// blend computes frame = (1-opacity)*frame + opacity*colormap(mask).
// The mask is scaled to the frame size first.
func (r *Renderer) blend(frame *gocv.Mat, m TintedMask) error {
	colorMap, ok := colorMaps[m.ColorMap]
	if !ok {
		return fmt.Errorf("unknown color map %d", m.ColorMap)
	}

	mask, err := gocv.NewMatFromBytes(m.Mask.Height, m.Mask.Width, gocv.MatTypeCV8UC1, m.Mask.Pix)
	if err != nil {
		return fmt.Errorf("failed to build mask: %w", err)
	}
	defer mask.Close()

	src := mask
	if mask.Cols() != frame.Cols() || mask.Rows() != frame.Rows() {
		scaled := gocv.NewMat()
		defer scaled.Close()
		err = gocv.Resize(mask, &scaled, image.Pt(frame.Cols(), frame.Rows()), 0, 0, gocv.InterpolationNearestNeighbor)
		if err != nil {
			return fmt.Errorf("failed to resize mask: %w", err)
		}
		src = scaled
	}

	colored := gocv.NewMat()
	defer colored.Close()
	if err := gocv.ApplyColorMap(src, &colored, colorMap); err != nil {
		return fmt.Errorf("failed to apply color map: %w", err)
	}

	if err := gocv.AddWeighted(*frame, 1-m.Opacity, colored, m.Opacity, 0, frame); err != nil {
		return fmt.Errorf("failed to blend mask: %w", err)
	}
	return nil
}
