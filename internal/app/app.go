package app

import (
	"context"
	"fmt"

	"annotator/internal/config"
	"annotator/internal/logger"
	"annotator/internal/model"
	"annotator/internal/service"
	"annotator/internal/service/ai"
	"annotator/internal/service/camera"
	"annotator/internal/service/overlay"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	catalog    *model.Catalog
	selector   *service.Selector
	controller *service.Controller
}

// NewApp loads the configuration and wires the camera, window and YOLO engine.
func NewApp() (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := ai.NewYOLOEngine(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	source := camera.NewCapture(cfg.CameraDevice)
	sink := camera.NewWindow(cfg.WindowName, cfg.QuitKey)

	return New(cfg, log, engine, source, sink), nil
}

// New wires an App from explicit collaborators.
func New(cfg *config.Config, log *logger.Logger, engine ai.Engine, source service.FrameSource, sink service.DisplaySink) *App {
	catalog := model.NewCatalog(cfg)

	return &App{
		config:     cfg,
		logger:     log,
		catalog:    catalog,
		selector:   service.NewSelector(catalog, engine, log),
		controller: service.NewController(source, sink, engine, overlay.NewRenderer(), log),
	}
}

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger {
	return a.logger
}

// ListTasks returns the task catalog in menu order.
func (a *App) ListTasks() []model.TaskCatalogEntry {
	return a.catalog.List()
}

// RunTask selects task id, runs the frame loop until it stops and releases
// the model. Errors are InvalidTaskError, ModelLoadError,
// SourceUnavailableError or AcquisitionError, or ctx.Err() when ctx is
// already done, in which case nothing is loaded or opened.
func (a *App) RunTask(ctx context.Context, id string) (service.Stats, error) {
	if err := ctx.Err(); err != nil {
		return service.Stats{}, err
	}

	state, err := a.selector.Select(id, service.RunState{})
	if err != nil {
		return service.Stats{}, err
	}
	defer func() {
		if err := state.Model.Close(); err != nil {
			a.logger.Warning("Failed to release model %s: %v", state.Model.Identifier(), err)
		}
	}()

	fmt.Printf("🎥 %s - press '%c' in the window to stop\n", state.ActiveTask.DisplayName, a.config.QuitKey)

	_, stats, err := a.controller.Run(ctx, state)
	return stats, err
}

// Close releases the logger.
func (a *App) Close() error {
	return a.logger.Close()
}
