package service

import (
	"errors"
	"testing"

	"annotator/internal/model"
)

func TestSelector_AllCatalogTasks(t *testing.T) {
	engine := &fakeEngine{}
	selector := NewSelector(newTestCatalog(), engine, newTestLogger(t))

	for _, id := range model.TaskIDs {
		state, err := selector.Select(string(id), RunState{})
		if err != nil {
			t.Fatalf("Select(%s) failed: %v", id, err)
		}
		if state.ActiveTask == nil || state.ActiveTask.ID != id {
			t.Errorf("Select(%s) did not activate the task", id)
		}
		if state.Model == nil {
			t.Errorf("Select(%s) did not bind a model", id)
		}
		if state.Running {
			t.Errorf("Select(%s) must not mark the state running", id)
		}
	}
	if len(engine.loaded) != 4 {
		t.Errorf("Expected 4 model loads, got %d", len(engine.loaded))
	}
}

func TestSelector_InvalidTask(t *testing.T) {
	engine := &fakeEngine{}
	selector := NewSelector(newTestCatalog(), engine, newTestLogger(t))

	previous := &fakeModel{id: "previous"}
	entry, _ := newTestCatalog().Lookup(model.TaskPose)
	initial := RunState{ActiveTask: &entry, Model: previous}

	for _, input := range []string{"", "1", "5", "Detection", "obb", " pose", "tracking"} {
		state, err := selector.Select(input, initial)

		var invalid *InvalidTaskError
		if !errors.As(err, &invalid) {
			t.Errorf("Select(%q): expected InvalidTaskError, got %v", input, err)
			continue
		}
		if invalid.Input != input {
			t.Errorf("Select(%q): error carries input %q", input, invalid.Input)
		}
		if state != initial {
			t.Errorf("Select(%q) mutated the run state", input)
		}
	}
	if len(engine.loaded) != 0 {
		t.Errorf("Expected no model loads, got %d", len(engine.loaded))
	}
	if previous.closed != 0 {
		t.Error("Expected previous model to stay open")
	}
}

func TestSelector_ModelLoadError(t *testing.T) {
	engine := &fakeEngine{loadErr: errBoom}
	selector := NewSelector(newTestCatalog(), engine, newTestLogger(t))

	state, err := selector.Select(string(model.TaskSegmentation), RunState{})

	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected ModelLoadError, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("Expected cause to be preserved, got %v", err)
	}
	if state.ActiveTask != nil || state.Model != nil {
		t.Error("Expected state to stay empty after a failed load")
	}
}

func TestSelector_ReplacesPreviousModel(t *testing.T) {
	selector := NewSelector(newTestCatalog(), &fakeEngine{}, newTestLogger(t))

	first, err := selector.Select(string(model.TaskDetection), RunState{})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	second, err := selector.Select(string(model.TaskClassification), first)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if first.Model.(*fakeModel).closed != 1 {
		t.Error("Expected previous model to be closed once")
	}
	if second.ActiveTask.ID != model.TaskClassification {
		t.Errorf("Expected classification to be active, got %s", second.ActiveTask.ID)
	}
}
