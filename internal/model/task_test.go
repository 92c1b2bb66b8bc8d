package model

import (
	"path/filepath"
	"testing"

	"annotator/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ModelDirectory:      "models",
		DetectionModel:      "det.onnx",
		SegmentationModel:   "seg.onnx",
		PoseModel:           "pose.onnx",
		ClassificationModel: "cls.onnx",
	}
}

func TestCatalog_ListOrder(t *testing.T) {
	entries := NewCatalog(testConfig()).List()

	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}
	expected := []TaskID{TaskDetection, TaskSegmentation, TaskPose, TaskClassification}
	for i, entry := range entries {
		if entry.ID != expected[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, expected[i], entry.ID)
		}
		if entry.DisplayName == "" {
			t.Errorf("Entry %s has no display name", entry.ID)
		}
	}
}

func TestCatalog_ModelIdentifiers(t *testing.T) {
	catalog := NewCatalog(testConfig())

	entry, ok := catalog.Lookup(TaskPose)
	if !ok {
		t.Fatal("Expected pose entry")
	}
	if entry.ModelIdentifier != filepath.Join("models", "pose.onnx") {
		t.Errorf("Unexpected model identifier %s", entry.ModelIdentifier)
	}
}

func TestCatalog_LookupUnknown(t *testing.T) {
	if _, ok := NewCatalog(testConfig()).Lookup("tracking"); ok {
		t.Error("Expected lookup of unknown task to fail")
	}
}

func TestTaskID_Valid(t *testing.T) {
	tests := []struct {
		id    TaskID
		valid bool
	}{
		{TaskDetection, true},
		{TaskSegmentation, true},
		{TaskPose, true},
		{TaskClassification, true},
		{"", false},
		{"1", false},
		{"Detection", false},
		{"obb", false},
	}

	for _, tt := range tests {
		if got := tt.id.Valid(); got != tt.valid {
			t.Errorf("TaskID(%q).Valid() = %v, expected %v", tt.id, got, tt.valid)
		}
	}
}
