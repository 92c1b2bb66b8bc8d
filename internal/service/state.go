package service

import (
	"annotator/internal/model"
	"annotator/internal/service/ai"
)

// State is the frame loop lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// RunState is passed through selection and the frame loop. Only the loop
// sets Running, and it hands back the zero value when a run ends.
type RunState struct {
	ActiveTask *model.TaskCatalogEntry
	Model      ai.Model
	Running    bool
}
