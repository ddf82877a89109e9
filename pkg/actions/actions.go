// Package actions is a registry of late-bound view actions.
//
// A rendering surface that owns a camera and a canvas registers callbacks
// for the actions it can perform. Anything else (toolbars, key bindings,
// CLI commands) invokes them by name without holding a reference to the
// view. Every slot is nullable: invoking an unbound slot does nothing and
// yields the slot's neutral value.
//
//	reg := actions.NewRegistry()
//	reg.SetCapture(func() (string, bool) { return canvas.DataURL(), true })
//	if url, ok := reg.Capture(); ok {
//	    save(url)
//	}
//	reg.SetCapture(nil) // view unmounted
package actions

import (
	"slices"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// Slot names.
const (
	SlotCapture      = "capture"
	SlotFitToScene   = "fitToScene"
	SlotCameraPreset = "cameraPreset"
)

// Preset names a camera position.
type Preset string

// Camera presets.
const (
	PresetFront Preset = "front"
	PresetLeft  Preset = "left"
	PresetIso   Preset = "iso"
	PresetReset Preset = "reset"
)

// Presets lists the camera presets in display order.
func Presets() []Preset {
	return []Preset{PresetFront, PresetLeft, PresetIso, PresetReset}
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (Preset, error) {
	p := Preset(name)
	if !slices.Contains(Presets(), p) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown camera preset %q (want front, left, iso or reset)", name)
	}
	return p, nil
}

// Callback types for each slot.
type (
	CaptureFunc      func() (dataURL string, ok bool)
	FitToSceneFunc   func()
	CameraPresetFunc func(Preset)
)

// Registry holds the currently bound view actions. The zero value has every
// slot unbound and is ready to use.
type Registry struct {
	capture      CaptureFunc
	fitToScene   FitToSceneFunc
	cameraPreset CameraPresetFunc
}

// NewRegistry returns a registry with every slot unbound.
func NewRegistry() *Registry { return &Registry{} }

// SetCapture binds the capture slot. Passing nil unbinds it.
func (r *Registry) SetCapture(fn CaptureFunc) { r.capture = fn }

// SetFitToScene binds the fit-to-scene slot. Passing nil unbinds it.
func (r *Registry) SetFitToScene(fn FitToSceneFunc) { r.fitToScene = fn }

// SetCameraPreset binds the camera preset slot. Passing nil unbinds it.
func (r *Registry) SetCameraPreset(fn CameraPresetFunc) { r.cameraPreset = fn }

// Capture returns the bound capture result, or "", false when unbound.
func (r *Registry) Capture() (string, bool) {
	if r.capture == nil {
		return "", false
	}
	return r.capture()
}

// FitToScene runs the bound action if any.
func (r *Registry) FitToScene() {
	if r.fitToScene != nil {
		r.fitToScene()
	}
}

// CameraPreset runs the bound action with name if any.
func (r *Registry) CameraPreset(name Preset) {
	if r.cameraPreset != nil {
		r.cameraPreset(name)
	}
}

// Ready reports whether the named slot is bound. Unknown names are never
// ready.
func (r *Registry) Ready(name string) bool {
	switch name {
	case SlotCapture:
		return r.capture != nil
	case SlotFitToScene:
		return r.fitToScene != nil
	case SlotCameraPreset:
		return r.cameraPreset != nil
	}
	return false
}

// Slots lists the slot names.
func Slots() []string {
	return []string{SlotCapture, SlotFitToScene, SlotCameraPreset}
}

// Set binds a slot by name. fn must be nil or have the slot's callback
// shape; plain func literals of the right signature are accepted as well
// as the named types.
func (r *Registry) Set(name string, fn any) error {
	switch name {
	case SlotCapture:
		switch f := fn.(type) {
		case nil:
			r.capture = nil
		case CaptureFunc:
			r.capture = f
		case func() (string, bool):
			r.capture = f
		default:
			return wrongShape(name, fn)
		}
	case SlotFitToScene:
		switch f := fn.(type) {
		case nil:
			r.fitToScene = nil
		case FitToSceneFunc:
			r.fitToScene = f
		case func():
			r.fitToScene = f
		default:
			return wrongShape(name, fn)
		}
	case SlotCameraPreset:
		switch f := fn.(type) {
		case nil:
			r.cameraPreset = nil
		case CameraPresetFunc:
			r.cameraPreset = f
		case func(Preset):
			r.cameraPreset = f
		case func(string):
			r.cameraPreset = func(p Preset) { f(string(p)) }
		default:
			return wrongShape(name, fn)
		}
	default:
		return errors.New(errors.ErrCodeUnknownAction, "unknown action %q", name)
	}
	return nil
}

// Invoke runs a slot by name. capture returns the data URL, or nil when
// the slot is unbound or produced nothing; cameraPreset takes one preset
// argument (a Preset or a string).
func (r *Registry) Invoke(name string, args ...any) (any, error) {
	switch name {
	case SlotCapture:
		if url, ok := r.Capture(); ok {
			return url, nil
		}
		return nil, nil
	case SlotFitToScene:
		r.FitToScene()
		return nil, nil
	case SlotCameraPreset:
		if len(args) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "cameraPreset takes one argument, got %d", len(args))
		}
		var p Preset
		switch a := args[0].(type) {
		case Preset:
			p = a
		case string:
			p = Preset(a)
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "cameraPreset argument must be a preset name, got %T", args[0])
		}
		if _, err := ParsePreset(string(p)); err != nil {
			return nil, err
		}
		r.CameraPreset(p)
		return nil, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownAction, "unknown action %q", name)
}

func wrongShape(name string, fn any) error {
	return errors.New(errors.ErrCodeUnknownAction, "action %q cannot be bound to %T", name, fn)
}
