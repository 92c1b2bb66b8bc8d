package dto

import "annotator/internal/model"

// Mask is one instance mask. Data is row-major, Width*Height values in [0,1].
type Mask struct {
	Width  int
	Height int
	Data   []float32
}

// SegmentationResult pairs detected instances with their masks.
// Masks is nil when the model produced no mask output.
type SegmentationResult struct {
	Boxes []Box
	Masks []Mask
	Names []string
}

func (*SegmentationResult) Task() model.TaskID { return model.TaskSegmentation }
func (*SegmentationResult) isResult()          {}
