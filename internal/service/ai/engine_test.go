package ai

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"annotator/internal/config"
	"annotator/internal/logger"
	"annotator/internal/model"

	"gocv.io/x/gocv"
)

type foreignModel struct{}

func (foreignModel) Identifier() string { return "foreign" }
func (foreignModel) Close() error       { return nil }

func newTestEngine(t *testing.T, cfg *config.Config) *YOLOEngine {
	t.Helper()
	cfg.LogDirectory = t.TempDir()
	log, err := logger.NewLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	engine, err := NewYOLOEngine(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

func TestTaskFromModelName(t *testing.T) {
	tests := []struct {
		identifier string
		task       model.TaskID
	}{
		{"models/yolo11l.onnx", model.TaskDetection},
		{"models/yolo11l-seg.onnx", model.TaskSegmentation},
		{"/opt/YOLOv8n-Pose.onnx", model.TaskPose},
		{"yolo11l-cls.onnx", model.TaskClassification},
		{"custom-seg-v2.onnx", model.TaskDetection},
	}

	for _, tt := range tests {
		if got := TaskFromModelName(tt.identifier); got != tt.task {
			t.Errorf("TaskFromModelName(%q) = %s, expected %s", tt.identifier, got, tt.task)
		}
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	engine := newTestEngine(t, &config.Config{InputSize: 640, ClassificationInputSize: 224})

	_, err := engine.LoadModel(filepath.Join(t.TempDir(), "missing.onnx"))
	if err == nil {
		t.Fatal("Expected error for missing model")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist cause, got %v", err)
	}
}

func TestInfer_ForeignModel(t *testing.T) {
	engine := newTestEngine(t, &config.Config{InputSize: 640, ClassificationInputSize: 224})

	frame := gocv.NewMat()
	defer frame.Close()

	if _, err := engine.Infer(foreignModel{}, frame); err == nil {
		t.Error("Expected error for a model from another engine")
	}
}

func TestNewYOLOEngine_ClassLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(path, []byte("tench\ngoldfish\n\n"), 0644); err != nil {
		t.Fatalf("Failed to write labels: %v", err)
	}

	engine := newTestEngine(t, &config.Config{ClassLabelsPath: path})
	if len(engine.classLabels) != 2 || engine.classLabels[1] != "goldfish" {
		t.Errorf("Unexpected labels %v", engine.classLabels)
	}
}

func TestNewYOLOEngine_MissingLabels(t *testing.T) {
	cfg := &config.Config{ClassLabelsPath: filepath.Join(t.TempDir(), "none.txt"), LogDirectory: t.TempDir()}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer log.Close()

	if _, err := NewYOLOEngine(cfg, log); err == nil {
		t.Error("Expected error for missing labels file")
	}
}
