package camera

import (
	"errors"
	"fmt"
	"strconv"

	"gocv.io/x/gocv"
)

// Capture reads frames from a camera index, video file or stream URL.
type Capture struct {
	device  string
	capture *gocv.VideoCapture
}

// NewCapture creates a capture for device. Numeric devices are camera indexes.
func NewCapture(device string) *Capture {
	return &Capture{device: device}
}

// Device returns the configured device.
func (c *Capture) Device() string {
	return c.device
}

// Open starts the capture.
func (c *Capture) Open() error {
	var device interface{} = c.device
	if index, err := strconv.Atoi(c.device); err == nil {
		device = index
	}

	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return fmt.Errorf("failed to open video capture %s: %w", c.device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return errors.New("video capture " + c.device + " is not opened")
	}

	c.capture = capture
	return nil
}

// Read grabs the next frame into frame. It returns false at end of stream
// or when the device stops delivering frames.
func (c *Capture) Read(frame *gocv.Mat) bool {
	if c.capture == nil {
		return false
	}
	return c.capture.Read(frame) && !frame.Empty()
}

// Close releases the device. Closing an unopened capture is a no-op.
func (c *Capture) Close() error {
	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}
