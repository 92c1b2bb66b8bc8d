package service

import (
	"errors"
	"testing"

	"annotator/internal/config"
	"annotator/internal/dto"
	"annotator/internal/logger"
	"annotator/internal/model"
	"annotator/internal/service/ai"
	"annotator/internal/service/overlay"

	"gocv.io/x/gocv"
)

type fakeSource struct {
	frames  int // frames delivered before Read fails
	openErr error
	opened  int
	closed  int
	reads   int
}

func (s *fakeSource) Open() error {
	s.opened++
	return s.openErr
}

func (s *fakeSource) Read(frame *gocv.Mat) bool {
	s.reads++
	if s.reads > s.frames {
		return false
	}
	src := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer src.Close()
	src.CopyTo(frame)
	return true
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

type fakeSink struct {
	cancelAfter int // quit after this many presented frames; 0 never
	openErr     error
	presentErr  error
	opened      int
	closed      int
	presented   int
}

func (s *fakeSink) Open() error {
	s.opened++
	return s.openErr
}

func (s *fakeSink) Present(frame gocv.Mat) error {
	if s.presentErr != nil {
		return s.presentErr
	}
	s.presented++
	return nil
}

func (s *fakeSink) PollCancellation() bool {
	return s.cancelAfter > 0 && s.presented >= s.cancelAfter
}

func (s *fakeSink) Close() error {
	s.closed++
	return nil
}

type fakeModel struct {
	id     string
	closed int
}

func (m *fakeModel) Identifier() string { return m.id }

func (m *fakeModel) Close() error {
	m.closed++
	return nil
}

type fakeEngine struct {
	result  dto.Result
	err     error
	loadErr error
	loaded  []string
	infers  int
}

func (e *fakeEngine) LoadModel(identifier string) (ai.Model, error) {
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	e.loaded = append(e.loaded, identifier)
	return &fakeModel{id: identifier}, nil
}

func (e *fakeEngine) Infer(m ai.Model, frame gocv.Mat) (dto.Result, error) {
	e.infers++
	return e.result, e.err
}

type fakeRenderer struct {
	calls      int
	primitives []int
}

func (r *fakeRenderer) Render(frame *gocv.Mat, primitives []overlay.Primitive) error {
	r.calls++
	r.primitives = append(r.primitives, len(primitives))
	return nil
}

var errBoom = errors.New("boom")

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func newTestCatalog() *model.Catalog {
	return model.NewCatalog(&config.Config{
		ModelDirectory:      "models",
		DetectionModel:      "yolo11l.onnx",
		SegmentationModel:   "yolo11l-seg.onnx",
		PoseModel:           "yolo11l-pose.onnx",
		ClassificationModel: "yolo11l-cls.onnx",
	})
}
