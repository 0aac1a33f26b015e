package engine

import "math"

const (
	// Threshold is the minimum horizontal travel, inclusive, for a drag to
	// count as a decision.
	Threshold = 100.0

	// RotationPerUnit is the card tilt, in degrees, per unit of offset.
	RotationPerUnit = 0.1
	// OpacityFalloff is the offset at which opacity would reach zero
	// without the MinOpacity floor.
	OpacityFalloff = 400.0
	MinOpacity     = 0.5
)

// Affordance is the presentational state of a card being dragged.
type Affordance struct {
	Offset   float64
	Rotation float64
	Opacity  float64
}

// Gesture turns one continuous horizontal drag into at most one decision.
// Right means yes, left means no. The zero value is ready to use.
type Gesture struct {
	offset   float64
	dragging bool
}

func (g *Gesture) Press() {
	g.dragging = true
	g.offset = 0
}

// Move accumulates a horizontal delta. Deltas outside a drag are ignored.
func (g *Gesture) Move(dx float64) {
	if !g.dragging {
		return
	}
	g.offset += dx
}

func (g *Gesture) Dragging() bool {
	return g.dragging
}

func (g *Gesture) Offset() float64 {
	return g.offset
}

// Release ends the drag. ok reports whether the drag travelled far enough to
// be a decision; answer is true for a swipe to the right.
func (g *Gesture) Release() (answer bool, ok bool) {
	offset := g.offset
	g.offset = 0
	g.dragging = false
	if math.Abs(offset) < Threshold {
		return false, false
	}
	return offset > 0, true
}

// Cancel abandons the drag without a decision.
func (g *Gesture) Cancel() {
	g.offset = 0
	g.dragging = false
}

func (g *Gesture) Affordance() Affordance {
	return AffordanceFor(g.offset)
}

// AffordanceFor maps an offset to a linear rotation and an opacity that
// decays with distance down to MinOpacity.
func AffordanceFor(offset float64) Affordance {
	return Affordance{
		Offset:   offset,
		Rotation: offset * RotationPerUnit,
		Opacity:  math.Max(MinOpacity, 1-math.Abs(offset)/OpacityFalloff),
	}
}
