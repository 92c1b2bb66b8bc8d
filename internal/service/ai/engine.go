package ai

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"annotator/internal/config"
	"annotator/internal/dto"
	"annotator/internal/logger"
	"annotator/internal/model"

	"gocv.io/x/gocv"
)

// Model is a loaded network handle.
type Model interface {
	Identifier() string
	Close() error
}

// Engine loads models and runs them on frames.
type Engine interface {
	LoadModel(identifier string) (Model, error)
	Infer(m Model, frame gocv.Mat) (dto.Result, error)
}

type yoloModel struct {
	identifier string
	task       model.TaskID
	net        gocv.Net
	inputSize  image.Point
	outputs    []string
}

func (m *yoloModel) Identifier() string { return m.identifier }

func (m *yoloModel) Close() error {
	return m.net.Close()
}

// YOLOEngine runs ultralytics YOLO ONNX exports through the OpenCV DNN module.
type YOLOEngine struct {
	config      *config.Config
	logger      *logger.Logger
	classLabels []string
}

// NewYOLOEngine creates the engine. Classification labels are read from
// config.ClassLabelsPath when it is set.
func NewYOLOEngine(config *config.Config, logger *logger.Logger) (*YOLOEngine, error) {
	engine := &YOLOEngine{
		config: config,
		logger: logger,
	}

	if config.ClassLabelsPath != "" {
		labels, err := LoadLabels(config.ClassLabelsPath)
		if err != nil {
			return nil, err
		}
		engine.classLabels = labels
		logger.Info("Loaded %d classification labels from %s", len(labels), config.ClassLabelsPath)
	}

	return engine, nil
}

// TaskFromModelName guesses the task a YOLO export was trained for from its
// file name: "-seg", "-pose" and "-cls" suffixes, otherwise detection.
func TaskFromModelName(identifier string) model.TaskID {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(identifier), filepath.Ext(identifier)))
	switch {
	case strings.HasSuffix(name, "-seg"):
		return model.TaskSegmentation
	case strings.HasSuffix(name, "-pose"):
		return model.TaskPose
	case strings.HasSuffix(name, "-cls"):
		return model.TaskClassification
	}
	return model.TaskDetection
}

// LoadModel reads the ONNX network at identifier and prepares it for CPU inference.
func (e *YOLOEngine) LoadModel(identifier string) (Model, error) {
	if _, err := os.Stat(identifier); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}

	net := gocv.ReadNetFromONNX(identifier)
	if net.Empty() {
		return nil, errors.New("failed to load network")
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	task := TaskFromModelName(identifier)
	size := e.config.InputSize
	if task == model.TaskClassification {
		size = e.config.ClassificationInputSize
	}

	m := &yoloModel{
		identifier: identifier,
		task:       task,
		net:        net,
		inputSize:  image.Pt(size, size),
		outputs:    outputNames(&net),
	}
	e.logger.Info("Model %s loaded for %s (input %dx%d, outputs %v)", identifier, task, size, size, m.outputs)
	return m, nil
}

func outputNames(net *gocv.Net) []string {
	ids := net.GetUnconnectedOutLayers()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		layer := net.GetLayer(id)
		names = append(names, layer.GetName())
		layer.Close()
	}
	return names
}

// Infer runs one forward pass on frame and parses the output for the model's task.
func (e *YOLOEngine) Infer(m Model, frame gocv.Mat) (dto.Result, error) {
	ym, ok := m.(*yoloModel)
	if !ok {
		return nil, fmt.Errorf("model %s was not loaded by the YOLO engine", m.Identifier())
	}
	if frame.Empty() {
		return nil, errors.New("empty frame")
	}

	blob := gocv.BlobFromImage(frame, 1.0/255.0, ym.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	ym.net.SetInput(blob, "")
	var outputs []gocv.Mat
	if len(ym.outputs) > 0 {
		outputs = ym.net.ForwardLayers(ym.outputs)
	} else {
		outputs = []gocv.Mat{ym.net.Forward("")}
	}
	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()

	tensors := make([]tensor, 0, len(outputs))
	for _, out := range outputs {
		t, err := newTensor(out)
		if err != nil {
			return nil, err
		}
		tensors = append(tensors, t)
	}
	if len(tensors) == 0 {
		return nil, errors.New("network produced no output")
	}

	p := parser{
		scale: scaling{
			x: float32(frame.Cols()) / float32(ym.inputSize.X),
			y: float32(frame.Rows()) / float32(ym.inputSize.Y),
		},
		inputSize:  ym.inputSize,
		frameSize:  image.Pt(frame.Cols(), frame.Rows()),
		confidence: float32(e.config.ConfidenceThreshold),
		nms:        float32(e.config.NMSThreshold),
	}

	switch ym.task {
	case model.TaskDetection:
		return p.detection(tensors[0], COCOClasses)
	case model.TaskSegmentation:
		head, protos, err := splitSegmentationOutputs(tensors)
		if err != nil {
			return nil, err
		}
		return p.segmentation(head, protos, COCOClasses)
	case model.TaskPose:
		return p.pose(tensors[0])
	case model.TaskClassification:
		return p.classification(tensors[0], e.classLabels)
	}
	return nil, fmt.Errorf("unsupported task %s", ym.task)
}
