package dto

import "annotator/internal/model"

// DetectionResult holds every object instance the detector kept for a frame.
type DetectionResult struct {
	Boxes []Box
	Names []string
}

func (*DetectionResult) Task() model.TaskID { return model.TaskDetection }
func (*DetectionResult) isResult()          {}
