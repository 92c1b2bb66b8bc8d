package model

import "annotator/internal/config"

// TaskID identifies one of the supported inference modes.
type TaskID string

const (
	TaskDetection      TaskID = "detection"
	TaskSegmentation   TaskID = "segmentation"
	TaskPose           TaskID = "pose"
	TaskClassification TaskID = "classification"
)

// TaskIDs is the stable catalog order.
var TaskIDs = []TaskID{TaskDetection, TaskSegmentation, TaskPose, TaskClassification}

// Valid reports whether id belongs to the catalog.
func (id TaskID) Valid() bool {
	for _, known := range TaskIDs {
		if id == known {
			return true
		}
	}
	return false
}

// TaskCatalogEntry describes a task and the model that serves it.
type TaskCatalogEntry struct {
	ID              TaskID `json:"id"`
	DisplayName     string `json:"display_name"`
	ModelIdentifier string `json:"model_identifier"`
}

// Catalog is the fixed mapping from task id to entry, built once at startup.
type Catalog struct {
	entries map[TaskID]TaskCatalogEntry
}

// NewCatalog builds the catalog with model identifiers taken from the config.
func NewCatalog(cfg *config.Config) *Catalog {
	return &Catalog{
		entries: map[TaskID]TaskCatalogEntry{
			TaskDetection:      {ID: TaskDetection, DisplayName: "Detección de objetos", ModelIdentifier: cfg.ModelPath(cfg.DetectionModel)},
			TaskSegmentation:   {ID: TaskSegmentation, DisplayName: "Segmentación", ModelIdentifier: cfg.ModelPath(cfg.SegmentationModel)},
			TaskPose:           {ID: TaskPose, DisplayName: "Puntos clave (pose)", ModelIdentifier: cfg.ModelPath(cfg.PoseModel)},
			TaskClassification: {ID: TaskClassification, DisplayName: "Clasificación", ModelIdentifier: cfg.ModelPath(cfg.ClassificationModel)},
		},
	}
}

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id TaskID) (TaskCatalogEntry, bool) {
	entry, ok := c.entries[id]
	return entry, ok
}

// List returns the entries in catalog order.
func (c *Catalog) List() []TaskCatalogEntry {
	entries := make([]TaskCatalogEntry, 0, len(TaskIDs))
	for _, id := range TaskIDs {
		entries = append(entries, c.entries[id])
	}
	return entries
}
