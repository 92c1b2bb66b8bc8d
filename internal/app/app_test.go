package app

import (
	"context"
	"errors"
	"testing"

	"annotator/internal/config"
	"annotator/internal/dto"
	"annotator/internal/logger"
	"annotator/internal/model"
	"annotator/internal/service"
	"annotator/internal/service/ai"

	"gocv.io/x/gocv"
)

type stubSource struct{ closed int }

func (s *stubSource) Open() error { return nil }

func (s *stubSource) Read(frame *gocv.Mat) bool {
	src := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer src.Close()
	src.CopyTo(frame)
	return true
}

func (s *stubSource) Close() error {
	s.closed++
	return nil
}

type stubSink struct{ closed int }

func (s *stubSink) Open() error                  { return nil }
func (s *stubSink) Present(frame gocv.Mat) error { return nil }
func (s *stubSink) PollCancellation() bool       { return true }

func (s *stubSink) Close() error {
	s.closed++
	return nil
}

type stubModel struct{ closed int }

func (m *stubModel) Identifier() string { return "stub" }

func (m *stubModel) Close() error {
	m.closed++
	return nil
}

type stubEngine struct {
	models []*stubModel
}

func (e *stubEngine) LoadModel(identifier string) (ai.Model, error) {
	m := &stubModel{}
	e.models = append(e.models, m)
	return m, nil
}

func (e *stubEngine) Infer(m ai.Model, frame gocv.Mat) (dto.Result, error) {
	return nil, nil
}

func newTestApp(t *testing.T) (*App, *stubEngine, *stubSource, *stubSink) {
	t.Helper()
	cfg := &config.Config{
		ModelDirectory:      "models",
		DetectionModel:      "yolo11l.onnx",
		SegmentationModel:   "yolo11l-seg.onnx",
		PoseModel:           "yolo11l-pose.onnx",
		ClassificationModel: "yolo11l-cls.onnx",
		QuitKey:             'q',
		LogDirectory:        t.TempDir(),
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	engine, source, sink := &stubEngine{}, &stubSource{}, &stubSink{}
	a := New(cfg, log, engine, source, sink)
	t.Cleanup(func() { a.Close() })
	return a, engine, source, sink
}

func TestApp_ListTasks(t *testing.T) {
	a, _, _, _ := newTestApp(t)

	tasks := a.ListTasks()
	if len(tasks) != len(model.TaskIDs) {
		t.Fatalf("Expected %d tasks, got %d", len(model.TaskIDs), len(tasks))
	}
	for i, id := range model.TaskIDs {
		if tasks[i].ID != id {
			t.Errorf("Task %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}

func TestApp_RunTaskForEveryCatalogEntry(t *testing.T) {
	a, engine, source, sink := newTestApp(t)

	for _, task := range a.ListTasks() {
		stats, err := a.RunTask(context.Background(), string(task.ID))
		var invalid *service.InvalidTaskError
		if errors.As(err, &invalid) {
			t.Errorf("RunTask(%s) returned InvalidTaskError", task.ID)
		}
		if err != nil {
			t.Errorf("RunTask(%s) failed: %v", task.ID, err)
		}
		if stats.Frames != 1 {
			t.Errorf("RunTask(%s): expected 1 frame, got %d", task.ID, stats.Frames)
		}
	}

	for i, m := range engine.models {
		if m.closed != 1 {
			t.Errorf("Model %d closed %d times, expected once", i, m.closed)
		}
	}
	if source.closed != 4 || sink.closed != 4 {
		t.Errorf("Expected source and display closed once per run, got %d/%d", source.closed, sink.closed)
	}
}

func TestApp_RunTaskInvalid(t *testing.T) {
	a, engine, source, _ := newTestApp(t)

	_, err := a.RunTask(context.Background(), "6")

	var invalid *service.InvalidTaskError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidTaskError, got %v", err)
	}
	if len(engine.models) != 0 || source.closed != 0 {
		t.Error("Expected nothing to be loaded or opened for an invalid task")
	}
}

func TestApp_RunTaskCancelledContext(t *testing.T) {
	a, engine, source, sink := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.RunTask(ctx, string(model.TaskDetection))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(engine.models) != 0 || source.closed != 0 || sink.closed != 0 {
		t.Error("Expected nothing to be loaded or opened for a cancelled context")
	}
}
