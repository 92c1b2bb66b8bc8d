package service

import (
	"time"

	"annotator/internal/model"
)

// Stats summarises one run of the frame loop.
type Stats struct {
	RunID             string
	Task              model.TaskID
	Frames            uint64 // Frames presented
	InferenceFailures uint64
	DecodeFailures    uint64
	RenderFailures    uint64
	Started           time.Time
	Duration          time.Duration
}

// FPS is the mean presentation rate over the run.
func (s Stats) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Duration.Seconds()
}
