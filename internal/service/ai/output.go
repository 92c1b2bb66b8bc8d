package ai

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"annotator/internal/dto"

	"gocv.io/x/gocv"
)

const (
	// boxChannels is the cx, cy, w, h prefix of every YOLO head row.
	boxChannels = 4
	// keypointCount is the number of body landmarks in a pose head.
	keypointCount = 17
	// maxCoordinate offsets boxes per class so NMS never suppresses across classes.
	maxCoordinate = 7680
)

// tensor is a float32 network output with its shape.
type tensor struct {
	data  []float32
	shape []int
}

func newTensor(m gocv.Mat) (tensor, error) {
	data, err := m.DataPtrFloat32()
	if err != nil {
		return tensor{}, fmt.Errorf("failed to read network output: %w", err)
	}
	return tensor{data: data, shape: m.Size()}, nil
}

// head returns channels and anchors of a [1, channels, anchors] output.
func (t tensor) head() (channels, anchors int, err error) {
	if len(t.shape) != 3 || t.shape[0] != 1 {
		return 0, 0, fmt.Errorf("unexpected head shape %v", t.shape)
	}
	channels, anchors = t.shape[1], t.shape[2]
	if len(t.data) < channels*anchors {
		return 0, 0, fmt.Errorf("head %v holds only %d values", t.shape, len(t.data))
	}
	return channels, anchors, nil
}

// at reads channel c of anchor i from a channel-major head.
func (t tensor) at(c, i, anchors int) float32 {
	return t.data[c*anchors+i]
}

type scaling struct {
	x float32
	y float32
}

type candidate struct {
	box    dto.Box
	anchor int
}

type parser struct {
	scale      scaling
	inputSize  image.Point
	frameSize  image.Point
	confidence float32
	nms        float32
}

// candidates scans every anchor for its best class among the numClasses
// scores that start at channel 4, keeping those above the confidence threshold.
func (p parser) candidates(t tensor, anchors, numClasses int) []candidate {
	var found []candidate
	for i := 0; i < anchors; i++ {
		best, classID := float32(0), 0
		for c := 0; c < numClasses; c++ {
			if score := t.at(boxChannels+c, i, anchors); score > best {
				best, classID = score, c
			}
		}
		if best < p.confidence {
			continue
		}

		cx, cy := t.at(0, i, anchors), t.at(1, i, anchors)
		w, h := t.at(2, i, anchors), t.at(3, i, anchors)
		found = append(found, candidate{
			box: dto.Box{
				X1:         (cx - w/2) * p.scale.x,
				Y1:         (cy - h/2) * p.scale.y,
				X2:         (cx + w/2) * p.scale.x,
				Y2:         (cy + h/2) * p.scale.y,
				Confidence: best,
				ClassID:    classID,
			},
			anchor: i,
		})
	}
	return found
}

// suppress applies per-class NMS and returns survivors, highest confidence first.
func (p parser) suppress(found []candidate) []candidate {
	if len(found) == 0 {
		return nil
	}

	rects := make([]image.Rectangle, len(found))
	scores := make([]float32, len(found))
	for i, c := range found {
		offset := c.box.ClassID * maxCoordinate
		rects[i] = image.Rect(int(c.box.X1)+offset, int(c.box.Y1)+offset, int(c.box.X2)+offset, int(c.box.Y2)+offset)
		scores[i] = c.box.Confidence
	}

	indices := gocv.NMSBoxes(rects, scores, p.confidence, p.nms)
	kept := make([]candidate, 0, len(indices))
	for _, idx := range indices {
		kept = append(kept, found[idx])
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].box.Confidence > kept[j].box.Confidence
	})
	return kept
}

func boxes(kept []candidate) []dto.Box {
	out := make([]dto.Box, len(kept))
	for i, c := range kept {
		out[i] = c.box
	}
	return out
}

// detection parses a [1, 4+nc, N] head.
func (p parser) detection(t tensor, names []string) (*dto.DetectionResult, error) {
	channels, anchors, err := t.head()
	if err != nil {
		return nil, err
	}
	numClasses := channels - boxChannels
	if numClasses <= 0 {
		return nil, fmt.Errorf("detection head has %d channels", channels)
	}

	kept := p.suppress(p.candidates(t, anchors, numClasses))
	return &dto.DetectionResult{Boxes: boxes(kept), Names: names}, nil
}

func splitSegmentationOutputs(tensors []tensor) (head, protos tensor, err error) {
	haveHead := false
	for _, t := range tensors {
		switch len(t.shape) {
		case 3:
			head, haveHead = t, true
		case 4:
			protos = t
		}
	}
	if !haveHead {
		return head, protos, errors.New("segmentation model produced no detection head")
	}
	return head, protos, nil
}

// segmentation parses a [1, 4+nc+nm, N] head and [1, nm, mh, mw] prototypes.
// Masks are produced at frame resolution.
func (p parser) segmentation(head, protos tensor, names []string) (*dto.SegmentationResult, error) {
	channels, anchors, err := head.head()
	if err != nil {
		return nil, err
	}

	if len(protos.shape) != 4 {
		// Detection-only output: boxes but no masks field.
		numClasses := channels - boxChannels
		if numClasses <= 0 {
			return nil, fmt.Errorf("segmentation head has %d channels", channels)
		}
		kept := p.suppress(p.candidates(head, anchors, numClasses))
		return &dto.SegmentationResult{Boxes: boxes(kept), Names: names}, nil
	}

	nm, mh, mw := protos.shape[1], protos.shape[2], protos.shape[3]
	numClasses := channels - boxChannels - nm
	if numClasses <= 0 {
		return nil, fmt.Errorf("segmentation head has %d channels for %d mask coefficients", channels, nm)
	}
	if len(protos.data) < nm*mh*mw {
		return nil, fmt.Errorf("prototypes %v hold only %d values", protos.shape, len(protos.data))
	}

	kept := p.suppress(p.candidates(head, anchors, numClasses))
	masks := make([]dto.Mask, 0, len(kept))
	for _, c := range kept {
		coefficients := make([]float32, nm)
		for j := range coefficients {
			coefficients[j] = head.at(boxChannels+numClasses+j, c.anchor, anchors)
		}
		mask, err := p.instanceMask(coefficients, protos.data, mw, mh, c.box)
		if err != nil {
			return nil, err
		}
		masks = append(masks, mask)
	}

	return &dto.SegmentationResult{Boxes: boxes(kept), Masks: masks, Names: names}, nil
}

// instanceMask combines prototypes with the instance coefficients and applies
// a sigmoid around the instance box. The map is upsampled bilinearly to the
// frame and everything outside the box is zeroed, so thresholding later gives
// smooth edges.
func (p parser) instanceMask(coefficients, protos []float32, mw, mh int, box dto.Box) (dto.Mask, error) {
	// frame pixels -> prototype cells, one cell of margin for interpolation
	fx := float32(mw) / (float32(p.inputSize.X) * p.scale.x)
	fy := float32(mh) / (float32(p.inputSize.Y) * p.scale.y)
	x1, y1 := int(box.X1*fx)-1, int(box.Y1*fy)-1
	x2, y2 := int(math.Ceil(float64(box.X2*fx)))+1, int(math.Ceil(float64(box.Y2*fy)))+1

	area := mw * mh
	cells := make([]float32, area)
	for y := max(y1, 0); y < min(y2, mh); y++ {
		for x := max(x1, 0); x < min(x2, mw); x++ {
			pixel := y*mw + x
			var sum float32
			for j, coefficient := range coefficients {
				sum += coefficient * protos[j*area+pixel]
			}
			cells[pixel] = sigmoid(sum)
		}
	}

	data, err := upsample(cells, mw, mh, p.frameSize)
	if err != nil {
		return dto.Mask{}, err
	}

	width, height := p.frameSize.X, p.frameSize.Y
	bx1, by1 := max(int(box.X1), 0), max(int(box.Y1), 0)
	bx2, by2 := min(int(math.Ceil(float64(box.X2))), width), min(int(math.Ceil(float64(box.Y2))), height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < bx1 || x >= bx2 || y < by1 || y >= by2 {
				data[y*width+x] = 0
			}
		}
	}
	return dto.Mask{Width: width, Height: height, Data: data}, nil
}

// upsample resizes a w x h float map to size with bilinear interpolation.
func upsample(data []float32, w, h int, size image.Point) ([]float32, error) {
	if w == size.X && h == size.Y {
		return data, nil
	}

	src := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	defer src.Close()
	pixels, err := src.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to access mask buffer: %w", err)
	}
	copy(pixels, data)

	dst := gocv.NewMat()
	defer dst.Close()
	if err := gocv.Resize(src, &dst, size, 0, 0, gocv.InterpolationLinear); err != nil {
		return nil, fmt.Errorf("failed to upsample mask: %w", err)
	}

	scaled, err := dst.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read upsampled mask: %w", err)
	}
	out := make([]float32, len(scaled))
	copy(out, scaled)
	return out, nil
}

func sigmoid(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}

// pose parses a [1, 5+17*3, N] head: box, person score, then x, y, visibility per keypoint.
func (p parser) pose(t tensor) (*dto.PoseResult, error) {
	channels, anchors, err := t.head()
	if err != nil {
		return nil, err
	}
	if channels != boxChannels+1+keypointCount*3 {
		return nil, fmt.Errorf("pose head has %d channels, expected %d", channels, boxChannels+1+keypointCount*3)
	}

	kept := p.suppress(p.candidates(t, anchors, 1))
	keypoints := make([][]dto.Keypoint, 0, len(kept))
	for _, c := range kept {
		subject := make([]dto.Keypoint, keypointCount)
		for k := range subject {
			base := boxChannels + 1 + 3*k
			subject[k] = dto.Keypoint{
				X:          t.at(base, c.anchor, anchors) * p.scale.x,
				Y:          t.at(base+1, c.anchor, anchors) * p.scale.y,
				Confidence: t.at(base+2, c.anchor, anchors),
			}
		}
		keypoints = append(keypoints, subject)
	}

	return &dto.PoseResult{Boxes: boxes(kept), Keypoints: keypoints}, nil
}

// classification parses a [1, nc] probability vector.
func (p parser) classification(t tensor, names []string) (*dto.ClassificationResult, error) {
	if len(t.shape) != 2 || t.shape[0] != 1 {
		return nil, fmt.Errorf("unexpected classification shape %v", t.shape)
	}
	n := t.shape[1]
	if len(t.data) < n {
		return nil, fmt.Errorf("classification output %v holds only %d values", t.shape, len(t.data))
	}

	probs := make([]float32, n)
	copy(probs, t.data[:n])
	return &dto.ClassificationResult{Probs: dto.NewProbs(probs), Names: names}, nil
}
