package service

import (
	"annotator/internal/logger"
	"annotator/internal/model"
	"annotator/internal/service/ai"
)

// Selector validates task ids and binds the engine to the task's model.
type Selector struct {
	catalog *model.Catalog
	engine  ai.Engine
	logger  *logger.Logger
}

func NewSelector(catalog *model.Catalog, engine ai.Engine, logger *logger.Logger) *Selector {
	return &Selector{
		catalog: catalog,
		engine:  engine,
		logger:  logger,
	}
}

// Select activates task id on state. On any failure state is returned unchanged.
// A model already held by state is closed once the new one is loaded.
func (s *Selector) Select(id string, state RunState) (RunState, error) {
	entry, ok := s.catalog.Lookup(model.TaskID(id))
	if !ok {
		return state, &InvalidTaskError{Input: id}
	}

	s.logger.Info("Loading model for %s: %s", entry.DisplayName, entry.ModelIdentifier)
	loaded, err := s.engine.LoadModel(entry.ModelIdentifier)
	if err != nil {
		return state, &ModelLoadError{Identifier: entry.ModelIdentifier, Err: err}
	}

	if state.Model != nil {
		if err := state.Model.Close(); err != nil {
			s.logger.Warning("Failed to release model %s: %v", state.Model.Identifier(), err)
		}
	}

	state.ActiveTask = &entry
	state.Model = loaded
	return state, nil
}
