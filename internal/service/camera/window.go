package camera

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var errWindowClosed = errors.New("window is not open")

// Window shows frames in a HighGUI window and reports the quit key.
type Window struct {
	name    string
	quitKey rune
	window  *gocv.Window
}

// NewWindow creates a display that stops when quitKey is pressed.
func NewWindow(name string, quitKey rune) *Window {
	return &Window{name: name, quitKey: quitKey}
}

// Open creates the window. It fails when OpenCV has no usable GUI backend.
func (w *Window) Open() error {
	gocv.ClearLastException()

	window := gocv.NewWindow(w.name)
	if err := gocv.LastExceptionError(); err != nil {
		window.Close()
		return fmt.Errorf("failed to create window %s: %w", w.name, err)
	}

	w.window = window
	return nil
}

// Present shows frame in the window.
func (w *Window) Present(frame gocv.Mat) error {
	if w.window == nil {
		return errWindowClosed
	}
	return w.window.IMShow(frame)
}

// PollCancellation pumps window events for 1ms and reports whether the quit key was pressed.
func (w *Window) PollCancellation() bool {
	if w.window == nil {
		return false
	}
	key := w.window.WaitKey(1)
	return key >= 0 && rune(key&0xFF) == w.quitKey
}

// Close destroys the window. Closing an unopened window is a no-op.
func (w *Window) Close() error {
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}
