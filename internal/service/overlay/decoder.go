package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"annotator/internal/dto"
	"annotator/internal/model"
)

// ErrResultMismatch means a result does not have the shape its task requires.
var ErrResultMismatch = errors.New("inference result does not match task")

// Green is the overlay colour for every task.
var Green = color.RGBA{R: 0, G: 255, B: 0, A: 0}

const (
	// KeypointThreshold is the minimum confidence for a keypoint to be drawn or joined.
	KeypointThreshold = 0.5
	// MaskThreshold binarizes mask probabilities.
	MaskThreshold = 0.5
	// MaskOpacity is the weight of the colored mask in the blend.
	MaskOpacity = 0.3

	detectionLabelOffset = 10
)

// ClassificationAnchor is where the classification label is drawn.
var ClassificationAnchor = image.Pt(10, 30)

// Decode turns the raw result of one inference into the overlay for task.
// Missing optional fields give an empty overlay; a result produced for
// another task, or one with a broken shape, fails with ErrResultMismatch.
func Decode(task model.TaskID, result dto.Result) ([]Primitive, error) {
	if result == nil {
		return nil, nil
	}
	if result.Task() != task {
		return nil, fmt.Errorf("%w: got %s result for %s task", ErrResultMismatch, result.Task(), task)
	}

	switch r := result.(type) {
	case *dto.DetectionResult:
		return DecodeDetection(r), nil
	case *dto.SegmentationResult:
		return DecodeSegmentation(r)
	case *dto.PoseResult:
		return DecodePose(r)
	case *dto.ClassificationResult:
		return DecodeClassification(r), nil
	}
	return nil, fmt.Errorf("%w: unsupported result type %T", ErrResultMismatch, result)
}

// DecodeDetection emits a box and a "name conf" label for every instance.
// No confidence filtering happens here; the engine already chose what to keep.
func DecodeDetection(r *dto.DetectionResult) []Primitive {
	if r == nil || len(r.Boxes) == 0 {
		return nil
	}

	primitives := make([]Primitive, 0, 2*len(r.Boxes))
	for _, box := range r.Boxes {
		x1, y1 := int(box.X1), int(box.Y1)
		x2, y2 := int(box.X2), int(box.Y2)

		primitives = append(primitives,
			Rectangle{Min: image.Pt(x1, y1), Max: image.Pt(x2, y2), Color: Green, Thickness: 2},
			Label{
				Origin:    image.Pt(x1, y1-detectionLabelOffset),
				Text:      fmt.Sprintf("%s %.2f", dto.ClassName(r.Names, box.ClassID), box.Confidence),
				Color:     Green,
				Scale:     0.5,
				Thickness: 2,
			},
		)
	}
	return primitives
}

// DecodeSegmentation emits one tinted mask per mask channel.
func DecodeSegmentation(r *dto.SegmentationResult) ([]Primitive, error) {
	if r == nil || len(r.Masks) == 0 {
		return nil, nil
	}

	primitives := make([]Primitive, 0, len(r.Masks))
	for i, mask := range r.Masks {
		if mask.Width <= 0 || mask.Height <= 0 || len(mask.Data) != mask.Width*mask.Height {
			return nil, fmt.Errorf("%w: mask %d is %dx%d with %d values", ErrResultMismatch, i, mask.Width, mask.Height, len(mask.Data))
		}
		primitives = append(primitives, TintedMask{
			Mask:     binarize(mask),
			ColorMap: ColorMapJet,
			Opacity:  MaskOpacity,
		})
	}
	return primitives, nil
}

func binarize(mask dto.Mask) BinaryMask {
	pix := make([]uint8, len(mask.Data))
	for i, v := range mask.Data {
		if v > MaskThreshold {
			pix[i] = 255
		}
	}
	return BinaryMask{Width: mask.Width, Height: mask.Height, Pix: pix}
}

// DecodePose draws the first subject only: a double circle per confident
// keypoint, then every skeleton link whose two ends are confident.
func DecodePose(r *dto.PoseResult) ([]Primitive, error) {
	if r == nil || len(r.Keypoints) == 0 {
		return nil, nil
	}

	keypoints := r.Keypoints[0]
	if len(keypoints) != len(BodyKeypoints) {
		return nil, fmt.Errorf("%w: expected %d keypoints, got %d", ErrResultMismatch, len(BodyKeypoints), len(keypoints))
	}

	var primitives []Primitive
	for _, kp := range keypoints {
		if kp.Confidence <= KeypointThreshold {
			continue
		}
		center := image.Pt(int(kp.X), int(kp.Y))
		primitives = append(primitives,
			Point{Center: center, Radius: 3, Color: Green, Thickness: Filled},
			Point{Center: center, Radius: 5, Color: Green, Thickness: 2},
		)
	}

	for _, link := range Skeleton {
		a, b := keypoints[link[0]], keypoints[link[1]]
		if a.Confidence <= KeypointThreshold || b.Confidence <= KeypointThreshold {
			continue
		}
		primitives = append(primitives, LineSegment{
			A:         image.Pt(int(a.X), int(a.Y)),
			B:         image.Pt(int(b.X), int(b.Y)),
			Color:     Green,
			Thickness: 2,
		})
	}
	return primitives, nil
}

// DecodeClassification emits the top-1 label at ClassificationAnchor.
func DecodeClassification(r *dto.ClassificationResult) []Primitive {
	if r == nil || r.Probs == nil {
		return nil
	}

	return []Primitive{Label{
		Origin:    ClassificationAnchor,
		Text:      fmt.Sprintf("Clase: %s (%.2f)", dto.ClassName(r.Names, r.Probs.Top1), r.Probs.Top1Conf),
		Color:     Green,
		Scale:     1,
		Thickness: 2,
	}}
}
