package geom

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/roomkit/pkg/errors"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		name      string
		in        Vec3
		grid      float64
		threshold float64
		want      Vec3
	}{
		{"snaps x and z within threshold", Vec3{1.05, 0.4, 2.9}, 1, 0.2, Vec3{1, 0.4, 3}},
		{"leaves values outside threshold", Vec3{1.5, 0, 2.3}, 1, 0.2, Vec3{1.5, 0, 2.3}},
		{"exact threshold does not snap", Vec3{1.25, 0, 0}, 1, 0.25, Vec3{1.25, 0, 0}},
		{"negative values", Vec3{-2.1, -3, -0.05}, 1, 0.2, Vec3{-2, -3, 0}},
		{"half grid", Vec3{0.52, 7, 1.46}, 0.5, 0.1, Vec3{0.5, 7, 1.5}},
		{"zero grid disables", Vec3{1.05, 1, 2.9}, 0, 0.2, Vec3{1.05, 1, 2.9}},
		{"negative grid disables", Vec3{1.05, 1, 2.9}, -1, 0.2, Vec3{1.05, 1, 2.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snap(tt.in, tt.grid, tt.threshold)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("Snap(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestSnapIdempotentAndYUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	grids := []float64{0.25, 0.5, 1, 2}
	thresholds := []float64{0.05, 0.2, 0.5}

	for i := 0; i < 2000; i++ {
		p := Vec3{rng.Float64()*24 - 12, rng.Float64()*10 - 5, rng.Float64()*24 - 12}
		g := grids[rng.Intn(len(grids))]
		th := thresholds[rng.Intn(len(thresholds))]

		once := Snap(p, g, th)
		twice := Snap(once, g, th)
		if once != twice {
			t.Fatalf("Snap not idempotent for %v (grid %v, threshold %v): %v then %v", p, g, th, once, twice)
		}
		if once[Y] != p[Y] {
			t.Fatalf("Snap changed Y: %v -> %v", p, once)
		}
	}
}

func TestSnapNonFinite(t *testing.T) {
	p := Vec3{math.NaN(), 1, math.Inf(1)}
	got := Snap(p, 1, 0.2)
	if !math.IsNaN(got[X]) || !math.IsInf(got[Z], 1) {
		t.Errorf("non-finite values should pass through, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	got := Clamp(Vec3{7.5, 9, -8}, 6)
	if got != (Vec3{6, 9, -6}) {
		t.Errorf("Clamp() = %v", got)
	}
	if got := Clamp(Vec3{100, 0, -100}, 0); got != (Vec3{100, 0, -100}) {
		t.Errorf("Clamp() with zero bound = %v", got)
	}
}

func TestPolicyApply(t *testing.T) {
	p := DefaultPolicy()
	if got := p.Apply(Vec3{1.05, 0.4, 2.9}); got != (Vec3{1, 0.4, 3}) {
		t.Errorf("Apply() = %v", got)
	}
	if got := p.Apply(Vec3{6.9, 2, -10}); got != (Vec3{6, 2, -6}) {
		t.Errorf("Apply() out of bounds = %v", got)
	}

	p.LockY = true
	if got := p.Apply(Vec3{0.1, 3.3, 0}); got != (Vec3{0, 0, 0}) {
		t.Errorf("Apply() with LockY = %v", got)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("DefaultPolicy().Validate() = %v", err)
	}
	if err := (Policy{}).Validate(); err != nil {
		t.Errorf("zero Policy.Validate() = %v", err)
	}
	bad := []Policy{
		{GridSize: math.NaN()},
		{Bounds: math.Inf(1)},
		{GridSize: 1, Threshold: -0.1},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", p)
		}
	}
}

func TestVecAdd(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{0.5, -2, 1})
	if got != (Vec3{1.5, 0, 4}) {
		t.Errorf("Add() = %v", got)
	}
}

func TestSnapNoNegativeZero(t *testing.T) {
	got := Snap(Vec3{-0.1, 0, -0.05}, 1, 0.2)
	if math.Signbit(got[X]) || math.Signbit(got[Z]) {
		t.Fatalf("Snap() = %v, want positive zeros", got)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[0,0,0]" {
		t.Errorf("Marshal(Snap()) = %s, want [0,0,0]", data)
	}

	got = DefaultPolicy().Apply(Vec3{-0.15, 1, -0.01})
	if math.Signbit(got[X]) || math.Signbit(got[Z]) {
		t.Errorf("Apply() = %v, want positive zeros", got)
	}
}

func TestVecUnmarshalJSON(t *testing.T) {
	var v Vec3
	if err := json.Unmarshal([]byte(`[1.5,-2,3e1]`), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v != (Vec3{1.5, -2, 30}) {
		t.Errorf("Unmarshal() = %v", v)
	}

	v = Vec3{1, 2, 3}
	if err := json.Unmarshal([]byte(`null`), &v); err != nil || v != (Vec3{1, 2, 3}) {
		t.Errorf("Unmarshal(null) = %v, %v; want unchanged", v, err)
	}

	bad := []string{
		`[1,2,3,4]`,
		`[1]`,
		`[]`,
		`[1,null,3]`,
		`[1,"2",3]`,
		`{"x":1}`,
		`[1,2,1e400]`,
	}
	for _, in := range bad {
		v := Vec3{7, 7, 7}
		err := json.Unmarshal([]byte(in), &v)
		if err == nil {
			t.Errorf("Unmarshal(%s) = %v, want error", in, v)
			continue
		}
		if v != (Vec3{7, 7, 7}) {
			t.Errorf("Unmarshal(%s) modified target: %v", in, v)
		}
	}

	if err := v.UnmarshalJSON([]byte(`[1,2]`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("UnmarshalJSON([1,2]) = %v, want INVALID_FORMAT", err)
	}
}
