package iview

import "math"

// Scale limits and steps for the view transform.
const (
	minScale = 0.5
	maxScale = 5.0

	zoomStep = 1.5

	// rotatedFitScale keeps a portrait/landscape-swapped image fully
	// visible in a fixed viewport.
	rotatedFitScale = 0.8
)

// TransformState is a snapshot of the view transform for rendering.
type TransformState struct {
	Scale    float64
	OffsetX  float64
	OffsetY  float64
	Rotation int // degrees, multiple of 90, not normalized
}

// Transform owns the interactive scale/offset/rotation state. It is a two
// phase state machine: idle, where only the committed baselines are
// authoritative, and gesturing, where the live scale/offset track input
// deltas relative to the last-committed baseline. Live values may run
// outside the clamp bounds for smooth feedback; they are clamped when the
// gesture ends and the value becomes the new baseline.
type Transform struct {
	scale       float64
	lastScale   float64
	offsetX     float64
	offsetY     float64
	lastOffsetX float64
	lastOffsetY float64
	rotation    int
	autoScale   bool
}

// NewTransform returns the identity transform with auto-scale enabled.
func NewTransform() *Transform {
	t := &Transform{}
	t.ResetAll()
	return t
}

func clampScale(s float64) float64 {
	return math.Max(minScale, math.Min(maxScale, s))
}

// ZoomChanged tracks a live pinch/magnify gesture. factor is relative to
// the committed baseline, not the previous live value.
func (t *Transform) ZoomChanged(factor float64) {
	t.scale = t.lastScale * factor
}

// ZoomEnded commits the live scale, clamped into [0.5, 5.0].
func (t *Transform) ZoomEnded() {
	t.lastScale = clampScale(t.scale)
	t.scale = t.lastScale
}

// PanChanged tracks a live drag. The translation is relative to the
// committed baseline.
func (t *Transform) PanChanged(dx, dy float64) {
	t.offsetX = t.lastOffsetX + dx
	t.offsetY = t.lastOffsetY + dy
}

// PanEnded commits the live offset as the new baseline.
func (t *Transform) PanEnded() {
	t.lastOffsetX = t.offsetX
	t.lastOffsetY = t.offsetY
}

// Rotate adds delta degrees (±90 per invocation) to the rotation. The value
// accumulates without normalization, so four right turns land on 360, not 0.
// While auto-scale is enabled the committed scale follows the canonical
// 1.0/0.8 pair; any manually adjusted scale is left untouched.
func (t *Transform) Rotate(delta int) {
	t.rotation += delta

	if !t.autoScale {
		return
	}
	if t.rotatedQuarter() {
		if t.lastScale == 1.0 {
			t.lastScale = rotatedFitScale
			t.scale = t.lastScale
		}
	} else {
		if t.lastScale == rotatedFitScale {
			t.lastScale = 1.0
			t.scale = t.lastScale
		}
	}
}

// ZoomIn steps the committed scale up by the fixed factor and disables the
// rotation auto-scale heuristic until the next reset.
func (t *Transform) ZoomIn() {
	t.lastScale = clampScale(t.lastScale * zoomStep)
	t.scale = t.lastScale
	t.autoScale = false
}

// ZoomOut steps the committed scale down by the fixed factor and disables
// the rotation auto-scale heuristic until the next reset.
func (t *Transform) ZoomOut() {
	t.lastScale = clampScale(t.lastScale / zoomStep)
	t.scale = t.lastScale
	t.autoScale = false
}

// ResetAll restores the identity transform and re-enables auto-scale. It is
// invoked on every cursor move and folder reload.
func (t *Transform) ResetAll() {
	t.scale = 1.0
	t.lastScale = 1.0
	t.offsetX = 0
	t.offsetY = 0
	t.lastOffsetX = 0
	t.lastOffsetY = 0
	t.rotation = 0
	t.autoScale = true
}

// RotationScaleFactor is the rotation-dependent rendering shrink: 0.8 when
// the image is turned a quarter, 1.0 otherwise. It is derived, never stored.
func (t *Transform) RotationScaleFactor() float64 {
	if t.rotatedQuarter() {
		return rotatedFitScale
	}
	return 1.0
}

func (t *Transform) rotatedQuarter() bool {
	norm := t.rotation % 360
	if norm < 0 {
		norm = -norm
	}
	return norm == 90 || norm == 270
}

// Scale returns the live scale value.
func (t *Transform) Scale() float64 { return t.scale }

// CommittedScale returns the last committed baseline scale.
func (t *Transform) CommittedScale() float64 { return t.lastScale }

// Offset returns the live pan offset.
func (t *Transform) Offset() (x, y float64) { return t.offsetX, t.offsetY }

// Rotation returns the accumulated rotation in degrees.
func (t *Transform) Rotation() int { return t.rotation }

// AutoScaleEnabled reports whether the rotation heuristic is armed.
func (t *Transform) AutoScaleEnabled() bool { return t.autoScale }

// State snapshots the live transform for rendering.
func (t *Transform) State() TransformState {
	return TransformState{
		Scale:    t.scale,
		OffsetX:  t.offsetX,
		OffsetY:  t.offsetY,
		Rotation: t.rotation,
	}
}
