// Package viewer implements the interactive 360° image viewer: a cyclic
// frame index driven by manual steps, drag gestures and an auto-rotation
// timer, plus a zoom factor.
//
// A Viewer is safe for concurrent use. It owns at most one auto-rotation
// timer at a time; every mode change cancels the previous timer, and a
// generation counter makes any tick that was already in flight inert.
package viewer

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"
)

// Interval bounds for auto-rotation.
const (
	MinInterval     = 50 * time.Millisecond
	MaxInterval     = 500 * time.Millisecond
	DefaultInterval = 100 * time.Millisecond
)

// ErrEmptySequence is returned when a viewer is opened without any images.
var ErrEmptySequence = errors.New("viewer: image sequence is empty")

// Input identifies the device driving a drag gesture.
type Input string

const (
	InputPointer Input = "pointer"
	InputTouch   Input = "touch"
)

// Options tune a Viewer. Zero fields fall back to DefaultOptions.
type Options struct {
	Interval           time.Duration
	PointerSensitivity int
	TouchSensitivity   int
	ZoomStep           float64
	MinZoom            float64
	MaxZoom            float64

	// Scheduler drives auto-rotation. Defaults to TickerScheduler.
	Scheduler Scheduler

	// OnChange receives a snapshot after every state change, including
	// auto-rotation ticks. It runs with the viewer locked and must not call
	// back into the viewer.
	OnChange func(State)

	// OnTick is called once per auto-rotation advance.
	OnTick func()
}

// DefaultOptions returns the stock viewer tuning.
func DefaultOptions() Options {
	return Options{
		Interval:           DefaultInterval,
		PointerSensitivity: 2,
		TouchSensitivity:   3,
		ZoomStep:           0.2,
		MinZoom:            0.5,
		MaxZoom:            3.0,
		Scheduler:          TickerScheduler{},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Interval == 0 {
		o.Interval = d.Interval
	}
	if o.PointerSensitivity <= 0 {
		o.PointerSensitivity = d.PointerSensitivity
	}
	if o.TouchSensitivity <= 0 {
		o.TouchSensitivity = d.TouchSensitivity
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = d.ZoomStep
	}
	if o.MinZoom <= 0 {
		o.MinZoom = d.MinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = d.MaxZoom
	}
	if o.Scheduler == nil {
		o.Scheduler = d.Scheduler
	}
	o.Interval = clampInterval(o.Interval)
	return o
}

// State is a point-in-time snapshot of a viewer.
type State struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	CurrentIndex int      `json:"current_index"`
	Current      string   `json:"current"`
	Total        int      `json:"total"`
	AutoRotating bool     `json:"auto_rotating"`
	IntervalMS   int64    `json:"interval_ms"`
	Zoom         float64  `json:"zoom"`
	Dragging     bool     `json:"dragging"`
	Closed       bool     `json:"closed"`
}

type dragState struct {
	active  bool
	originX float64
	originY float64
	input   Input
}

// Viewer holds the rotation, zoom and drag state of one viewing session.
type Viewer struct {
	mu sync.Mutex

	opts        Options
	images      []string
	title       string
	description string

	index        int
	autoRotating bool
	interval     time.Duration
	zoom         float64
	drag         dragState

	timer  Timer
	gen    uint64
	closed bool
}

// New opens a viewer over images. Blank references are dropped; if nothing
// remains ErrEmptySequence is returned.
func New(images []string, title, description string, opts Options) (*Viewer, error) {
	seq := make([]string, 0, len(images))
	for _, img := range images {
		if s := strings.TrimSpace(img); s != "" {
			seq = append(seq, s)
		}
	}
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}

	opts = opts.withDefaults()
	return &Viewer{
		opts:        opts,
		images:      seq,
		title:       title,
		description: description,
		interval:    opts.Interval,
		zoom:        1.0,
	}, nil
}

// State returns a snapshot of the viewer.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot()
}

// StepForward shows the next frame and stops auto-rotation.
func (v *Viewer) StepForward() {
	v.mutate(func() {
		v.stopTimer()
		v.advance(1)
	})
}

// StepBackward shows the previous frame and stops auto-rotation.
func (v *Viewer) StepBackward() {
	v.mutate(func() {
		v.stopTimer()
		v.advance(-1)
	})
}

// ToggleAutoRotate flips auto-rotation on or off.
func (v *Viewer) ToggleAutoRotate() {
	v.mutate(func() {
		if v.autoRotating {
			v.stopTimer()
		} else {
			v.startTimer()
		}
	})
}

// StartAutoRotate turns auto-rotation on. A running timer is replaced.
func (v *Viewer) StartAutoRotate() {
	v.mutate(v.startTimer)
}

// StopAutoRotate turns auto-rotation off.
func (v *Viewer) StopAutoRotate() {
	v.mutate(v.stopTimer)
}

// SetAutoRotateInterval changes the auto-rotation period, clamped to
// [MinInterval, MaxInterval]. A running timer restarts with the new period.
func (v *Viewer) SetAutoRotateInterval(d time.Duration) {
	v.mutate(func() {
		v.interval = clampInterval(d)
		if v.autoRotating {
			v.startTimer()
		}
	})
}

// BeginDrag records the gesture origin and stops auto-rotation.
func (v *Viewer) BeginDrag(x, y float64, input Input) {
	if input != InputTouch {
		input = InputPointer
	}
	v.mutate(func() {
		v.stopTimer()
		v.drag = dragState{active: true, originX: x, originY: y, input: input}
	})
}

// ContinueDrag moves one frame per sensitivity units of horizontal travel
// since the origin. When at least one frame moves, the origin resets to
// (x, y). It is a no-op without an active drag.
func (v *Viewer) ContinueDrag(x, y float64) {
	v.mutate(func() {
		if !v.drag.active {
			return
		}
		dx := x - v.drag.originX
		steps := int(math.Floor(math.Abs(dx) / float64(v.sensitivity(v.drag.input))))
		if steps == 0 {
			return
		}
		if dx < 0 {
			steps = -steps
		}
		v.advance(steps)
		v.drag.originX, v.drag.originY = x, y
	})
}

// EndDrag finishes the gesture. Auto-rotation is not resumed.
func (v *Viewer) EndDrag() {
	v.mutate(func() {
		v.drag = dragState{}
	})
}

// ZoomIn increases the zoom factor by one step up to the maximum.
func (v *Viewer) ZoomIn() {
	v.mutate(func() {
		v.zoom = v.clampZoom(v.zoom + v.opts.ZoomStep)
	})
}

// ZoomOut decreases the zoom factor by one step down to the minimum.
func (v *Viewer) ZoomOut() {
	v.mutate(func() {
		v.zoom = v.clampZoom(v.zoom - v.opts.ZoomStep)
	})
}

// Reset returns to the first frame at zoom 1.0 with auto-rotation off.
func (v *Viewer) Reset() {
	v.mutate(func() {
		v.stopTimer()
		v.index = 0
		v.zoom = 1.0
		v.drag = dragState{}
	})
}

// Close tears down the timer. Every later call is a no-op.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.stopTimer()
	v.drag = dragState{}
	v.closed = true
	v.notify()
}

// Closed reports whether Close has been called.
func (v *Viewer) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// mutate runs fn under the lock unless the viewer is closed, then notifies.
func (v *Viewer) mutate(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	fn()
	v.notify()
}

// startTimer replaces any running timer with a fresh one.
func (v *Viewer) startTimer() {
	v.stopTimer()
	v.gen++
	gen := v.gen
	v.autoRotating = true
	v.timer = v.opts.Scheduler.Every(v.interval, func() { v.tick(gen) })
}

func (v *Viewer) stopTimer() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.gen++
	v.autoRotating = false
}

func (v *Viewer) tick(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || !v.autoRotating || gen != v.gen {
		return
	}
	v.advance(1)
	if v.opts.OnTick != nil {
		v.opts.OnTick()
	}
	v.notify()
}

func (v *Viewer) advance(n int) {
	l := len(v.images)
	v.index = ((v.index+n)%l + l) % l
}

func (v *Viewer) sensitivity(in Input) int {
	if in == InputTouch {
		return v.opts.TouchSensitivity
	}
	return v.opts.PointerSensitivity
}

// clampZoom rounds to two decimals so repeated steps do not drift.
func (v *Viewer) clampZoom(z float64) float64 {
	z = math.Round(z*100) / 100
	return math.Max(v.opts.MinZoom, math.Min(v.opts.MaxZoom, z))
}

func (v *Viewer) notify() {
	if v.opts.OnChange != nil {
		v.opts.OnChange(v.snapshot())
	}
}

func (v *Viewer) snapshot() State {
	images := make([]string, len(v.images))
	copy(images, v.images)
	return State{
		Title:        v.title,
		Description:  v.description,
		Images:       images,
		CurrentIndex: v.index,
		Current:      v.images[v.index],
		Total:        len(v.images),
		AutoRotating: v.autoRotating,
		IntervalMS:   v.interval.Milliseconds(),
		Zoom:         v.zoom,
		Dragging:     v.drag.active,
		Closed:       v.closed,
	}
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}
