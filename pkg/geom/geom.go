// Package geom provides the coordinate types and the snapping policy used
// when a placed item is released after a drag.
//
// Snapping is applied by the caller before a transform is stored; the
// placement store itself accepts any coordinates.
package geom

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// Vec3 is an [x, y, z] triple. Positions are in room units and rotations
// are Euler angles in radians.
type Vec3 [3]float64

// Axis indices into a Vec3.
const (
	X = 0
	Y = 1
	Z = 2
)

// Origin is the zero vector, used for freshly placed items.
var Origin = Vec3{0, 0, 0}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[X] + o[X], v[Y] + o[Y], v[Z] + o[Z]}
}

// UnmarshalJSON decodes an array of exactly three finite numbers. JSON null
// leaves v unchanged.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "vector must be an array of numbers")
	}
	if len(raw) != 3 {
		return errors.New(errors.ErrCodeInvalidFormat, "vector must have 3 components, got %d", len(raw))
	}
	var out Vec3
	for i, f := range raw {
		if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
			return errors.New(errors.ErrCodeInvalidFormat, "vector component %d is not a finite number", i)
		}
		out[i] = *f
	}
	*v = out
	return nil
}

// Default policy values.
const (
	DefaultGridSize  = 1.0
	DefaultThreshold = 0.2
	DefaultBounds    = 6.0
)

// Snap aligns the X and Z axes of p to the nearest multiple of gridSize when
// the raw value lies strictly within threshold of it. Y is returned
// unchanged. A non-positive gridSize disables snapping.
//
// Snap is idempotent: Snap(Snap(p, g, t), g, t) == Snap(p, g, t).
func Snap(p Vec3, gridSize, threshold float64) Vec3 {
	if gridSize <= 0 || math.IsNaN(gridSize) {
		return p
	}
	out := p
	for _, axis := range [...]int{X, Z} {
		out[axis] = snapAxis(p[axis], gridSize, threshold)
	}
	return out
}

func snapAxis(v, gridSize, threshold float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	nearest := math.Round(v/gridSize) * gridSize
	if math.Abs(v-nearest) < threshold {
		if nearest == 0 {
			return 0 // not -0
		}
		return nearest
	}
	return v
}

// Clamp limits the X and Z axes of p to [-bound, bound]. Y is unchanged.
// A non-positive bound disables clamping.
func Clamp(p Vec3, bound float64) Vec3 {
	if bound <= 0 {
		return p
	}
	out := p
	for _, axis := range [...]int{X, Z} {
		out[axis] = math.Max(-bound, math.Min(bound, p[axis]))
	}
	return out
}

// Policy bundles the release-time adjustments applied to a dragged item.
type Policy struct {
	GridSize  float64 // grid cell size; <= 0 disables snapping
	Threshold float64 // snap tolerance, strictly less-than
	Bounds    float64 // half-extent of the floor plane on X/Z; <= 0 disables
	LockY     bool    // force Y to 0 on release instead of free vertical placement
}

// DefaultPolicy returns the policy used when no configuration is supplied:
// grid 1, threshold 0.2, bounds 6, free vertical placement.
func DefaultPolicy() Policy {
	return Policy{
		GridSize:  DefaultGridSize,
		Threshold: DefaultThreshold,
		Bounds:    DefaultBounds,
	}
}

// Apply snaps, then clamps, then optionally locks Y.
func (p Policy) Apply(pos Vec3) Vec3 {
	out := Clamp(Snap(pos, p.GridSize, p.Threshold), p.Bounds)
	if p.LockY {
		out[Y] = 0
	}
	return out
}

// Validate rejects NaN or infinite settings and a negative threshold.
// Zero or negative grid and bounds are allowed and disable their step.
func (p Policy) Validate() error {
	for name, v := range map[string]float64{"grid size": p.GridSize, "snap threshold": p.Threshold, "bounds": p.Bounds} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be finite", name)
		}
	}
	if p.Threshold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "snap threshold cannot be negative")
	}
	return nil
}
