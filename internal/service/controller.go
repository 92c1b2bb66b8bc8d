package service

import (
	"context"
	"time"

	"annotator/internal/logger"
	"annotator/internal/model"
	"annotator/internal/service/ai"
	"annotator/internal/service/overlay"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// FrameSource delivers frames. Read returns false when no frame is available.
type FrameSource interface {
	Open() error
	Read(frame *gocv.Mat) bool
	Close() error
}

// DisplaySink shows frames and reports whether the operator asked to quit.
type DisplaySink interface {
	Open() error
	Present(frame gocv.Mat) error
	PollCancellation() bool
	Close() error
}

// Renderer draws an overlay onto a frame in place.
type Renderer interface {
	Render(frame *gocv.Mat, primitives []overlay.Primitive) error
}

// Controller runs the acquire, infer, decode, render, present cycle one frame at a time.
type Controller struct {
	source   FrameSource
	sink     DisplaySink
	engine   ai.Engine
	renderer Renderer
	logger   *logger.Logger
	state    State
}

func NewController(source FrameSource, sink DisplaySink, engine ai.Engine, renderer Renderer, logger *logger.Logger) *Controller {
	return &Controller{
		source:   source,
		sink:     sink,
		engine:   engine,
		renderer: renderer,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns where the loop is in its lifecycle.
func (c *Controller) State() State {
	return c.state
}

// Run drives the loop for the task active in rs and blocks until the run stops:
// the display asks to quit or ctx is cancelled (both polled after each
// presented frame), the source stops delivering frames (AcquisitionError)
// or the display stops accepting them (SourceUnavailableError).
// Source and display are closed exactly once on every exit path, and the
// returned RunState is always the zero value once the loop has started.
func (c *Controller) Run(ctx context.Context, rs RunState) (final RunState, stats Stats, err error) {
	if rs.ActiveTask == nil || rs.Model == nil {
		return rs, Stats{}, ErrNoActiveTask
	}

	task := rs.ActiveTask.ID
	stats = Stats{RunID: uuid.NewString(), Task: task, Started: time.Now()}
	c.state = StateIdle

	defer func() {
		c.release(stats.RunID)
		c.state = StateStopped
		stats.Duration = time.Since(stats.Started)
		c.logger.Info("[%s] Stopped after %d frames (%.1f fps), inference failures: %d, decode failures: %d, render failures: %d",
			stats.RunID, stats.Frames, stats.FPS(), stats.InferenceFailures, stats.DecodeFailures, stats.RenderFailures)
	}()

	if err := c.source.Open(); err != nil {
		c.logger.Error("[%s] Could not open frame source: %v", stats.RunID, err)
		return RunState{}, stats, &SourceUnavailableError{Component: "frame source", Err: err}
	}
	if err := c.sink.Open(); err != nil {
		c.logger.Error("[%s] Could not open display: %v", stats.RunID, err)
		return RunState{}, stats, &SourceUnavailableError{Component: "display", Err: err}
	}

	rs.Running = true
	c.state = StateRunning
	c.logger.Info("[%s] Running %s with %s", stats.RunID, rs.ActiveTask.DisplayName, rs.Model.Identifier())

	for {
		if err := c.step(task, rs.Model, &stats); err != nil {
			c.logger.Error("[%s] Run failed at frame %d: %v", stats.RunID, stats.Frames+1, err)
			return RunState{}, stats, err
		}

		if c.sink.PollCancellation() {
			c.logger.Info("[%s] Quit requested", stats.RunID)
			return RunState{}, stats, nil
		}
		if ctx.Err() != nil {
			c.logger.Info("[%s] Run cancelled: %v", stats.RunID, ctx.Err())
			return RunState{}, stats, nil
		}
	}
}

// step processes one frame. It fails when no frame could be acquired or the
// display rejects it. The frame never outlives the call.
func (c *Controller) step(task model.TaskID, m ai.Model, stats *Stats) error {
	frame := gocv.NewMat()
	defer frame.Close()

	if !c.source.Read(&frame) {
		return &AcquisitionError{Frame: stats.Frames}
	}

	primitives := c.decode(task, m, frame, stats)
	if err := c.renderer.Render(&frame, primitives); err != nil {
		stats.RenderFailures++
		c.logger.Warning("[%s] Failed to render overlay on frame %d: %v", stats.RunID, stats.Frames+1, err)
	}

	if err := c.sink.Present(frame); err != nil {
		return &SourceUnavailableError{Component: "display", Err: err}
	}
	stats.Frames++
	return nil
}

// decode runs inference and turns the result into an overlay. Failures
// leave the overlay empty so the frame is shown unmodified.
func (c *Controller) decode(task model.TaskID, m ai.Model, frame gocv.Mat, stats *Stats) []overlay.Primitive {
	result, err := c.engine.Infer(m, frame)
	if err != nil {
		stats.InferenceFailures++
		c.logger.Warning("[%s] Inference failed on frame %d: %v", stats.RunID, stats.Frames+1, err)
		return nil
	}

	primitives, err := overlay.Decode(task, result)
	if err != nil {
		stats.DecodeFailures++
		c.logger.Warning("[%s] Failed to decode frame %d: %v", stats.RunID, stats.Frames+1, err)
		return nil
	}
	return primitives
}

func (c *Controller) release(runID string) {
	if err := c.source.Close(); err != nil {
		c.logger.Warning("[%s] Failed to close frame source: %v", runID, err)
	}
	if err := c.sink.Close(); err != nil {
		c.logger.Warning("[%s] Failed to close display: %v", runID, err)
	}
}
