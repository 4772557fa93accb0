package viewer

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownCommand is returned by Apply for an unrecognised command name.
var ErrUnknownCommand = errors.New("viewer: unknown command")

// Command names accepted by Apply.
const (
	CmdStepForward      = "step_forward"
	CmdStepBackward     = "step_backward"
	CmdToggleAutoRotate = "toggle_auto_rotate"
	CmdStartAutoRotate  = "start_auto_rotate"
	CmdStopAutoRotate   = "stop_auto_rotate"
	CmdSetInterval      = "set_interval"
	CmdBeginDrag        = "begin_drag"
	CmdContinueDrag     = "continue_drag"
	CmdEndDrag          = "end_drag"
	CmdZoomIn           = "zoom_in"
	CmdZoomOut          = "zoom_out"
	CmdReset            = "reset"
)

// Command is one user interaction, as sent over REST or WebSocket.
type Command struct {
	Command    string  `json:"command"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Input      Input   `json:"input,omitempty"`
	IntervalMS int     `json:"interval_ms,omitempty"`
}

// Apply dispatches cmd to v and returns the resulting state.
func Apply(v *Viewer, cmd Command) (State, error) {
	switch cmd.Command {
	case CmdStepForward:
		v.StepForward()
	case CmdStepBackward:
		v.StepBackward()
	case CmdToggleAutoRotate:
		v.ToggleAutoRotate()
	case CmdStartAutoRotate:
		v.StartAutoRotate()
	case CmdStopAutoRotate:
		v.StopAutoRotate()
	case CmdSetInterval:
		if cmd.IntervalMS <= 0 {
			return v.State(), fmt.Errorf("set_interval: interval_ms must be positive")
		}
		ms := min(cmd.IntervalMS, int(MaxInterval/time.Millisecond))
		v.SetAutoRotateInterval(time.Duration(ms) * time.Millisecond)
	case CmdBeginDrag:
		if cmd.Input != "" && cmd.Input != InputPointer && cmd.Input != InputTouch {
			return v.State(), fmt.Errorf("begin_drag: input must be pointer or touch, got %q", cmd.Input)
		}
		v.BeginDrag(cmd.X, cmd.Y, cmd.Input)
	case CmdContinueDrag:
		v.ContinueDrag(cmd.X, cmd.Y)
	case CmdEndDrag:
		v.EndDrag()
	case CmdZoomIn:
		v.ZoomIn()
	case CmdZoomOut:
		v.ZoomOut()
	case CmdReset:
		v.Reset()
	default:
		return v.State(), fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Command)
	}
	return v.State(), nil
}
