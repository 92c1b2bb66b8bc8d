package dto

import (
	"strconv"

	"annotator/internal/model"
)

// Result is the raw output of one inference call. Each task has its own
// concrete shape; only the decoder for that task reads it.
type Result interface {
	Task() model.TaskID
	isResult()
}

// Box is a bounding box in frame pixel coordinates.
type Box struct {
	X1         float32
	Y1         float32
	X2         float32
	Y2         float32
	Confidence float32
	ClassID    int
}

// ClassName returns the label for id, or "class N" when names does not cover it.
func ClassName(names []string, id int) string {
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return "class " + strconv.Itoa(id)
}
