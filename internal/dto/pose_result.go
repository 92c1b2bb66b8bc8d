package dto

import "annotator/internal/model"

// Keypoint is a body landmark in frame pixels with its visibility confidence.
type Keypoint struct {
	X          float32
	Y          float32
	Confidence float32
}

// PoseResult holds one keypoint sequence per detected subject, highest score first.
// Keypoints is nil when the model produced no keypoint output.
type PoseResult struct {
	Boxes     []Box
	Keypoints [][]Keypoint
}

func (*PoseResult) Task() model.TaskID { return model.TaskPose }
func (*PoseResult) isResult()          {}
