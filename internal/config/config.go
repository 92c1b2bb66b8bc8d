package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the annotator.
type Config struct {
	CameraDevice            string // Device index ("0") or a file path / stream URL
	WindowName              string
	QuitKey                 rune
	ModelDirectory          string
	DetectionModel          string
	SegmentationModel       string
	PoseModel               string
	ClassificationModel     string
	ClassLabelsPath         string // Optional label file for classification, one per line
	InputSize               int
	ClassificationInputSize int
	ConfidenceThreshold     float64 // Candidate filter inside the engine, not an overlay threshold
	NMSThreshold            float64
	LogDirectory            string
}

// Load reads .env (if present) and builds the configuration from the environment.
func Load() *Config {
	// A missing .env file is fine
	_ = godotenv.Load()

	return &Config{
		CameraDevice:            getEnv("CAMERA", "0"),
		WindowName:              getEnv("WINDOW_NAME", "YOLO Processing"),
		QuitKey:                 getEnvAsRune("QUIT_KEY", 'q'),
		ModelDirectory:          getEnv("MODEL_DIR", filepath.Join(".", "models")),
		DetectionModel:          getEnv("DETECTION_MODEL", "yolo11l.onnx"),
		SegmentationModel:       getEnv("SEGMENTATION_MODEL", "yolo11l-seg.onnx"),
		PoseModel:               getEnv("POSE_MODEL", "yolo11l-pose.onnx"),
		ClassificationModel:     getEnv("CLASSIFICATION_MODEL", "yolo11l-cls.onnx"),
		ClassLabelsPath:         getEnv("CLASSIFICATION_LABELS", ""),
		InputSize:               getEnvAsInt("INPUT_SIZE", 640),
		ClassificationInputSize: getEnvAsInt("CLASSIFICATION_INPUT_SIZE", 224),
		ConfidenceThreshold:     getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.25),
		NMSThreshold:            getEnvAsFloat("NMS_THRESHOLD", 0.45),
		LogDirectory:            getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

// ModelPath joins a model file name with the model directory unless it is already a path.
func (c *Config) ModelPath(file string) string {
	if filepath.IsAbs(file) || filepath.Dir(file) != "." {
		return file
	}
	return filepath.Join(c.ModelDirectory, file)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil && floatValue >= 0 && floatValue <= 1 {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsRune(key string, defaultValue rune) rune {
	if value := os.Getenv(key); value != "" {
		return []rune(value)[0]
	}
	return defaultValue
}
