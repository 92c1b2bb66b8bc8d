package dto

import "annotator/internal/model"

// Probs is the class probability vector with its top-1 entry.
type Probs struct {
	Data     []float32
	Top1     int
	Top1Conf float32
}

// NewProbs computes the top-1 entry of data. It returns nil for an empty vector.
func NewProbs(data []float32) *Probs {
	if len(data) == 0 {
		return nil
	}
	top := 0
	for i, p := range data {
		if p > data[top] {
			top = i
		}
	}
	return &Probs{Data: data, Top1: top, Top1Conf: data[top]}
}

// ClassificationResult is a whole-frame classification. Probs is nil when
// the model produced no probability vector.
type ClassificationResult struct {
	Probs *Probs
	Names []string
}

func (*ClassificationResult) Task() model.TaskID { return model.TaskClassification }
func (*ClassificationResult) isResult()          {}
