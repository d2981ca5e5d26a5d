// Package motion holds the single-body update rule used by the bouncing-ball demo.
package motion

import "math/rand/v2"

// Bounce reports which walls inverted a velocity component during a step (bitmask)
type Bounce uint8

const (
	BounceNone   Bounce = 0
	BounceLeft   Bounce = 1 << 0
	BounceRight  Bounce = 1 << 1
	BounceTop    Bounce = 1 << 2
	BounceBottom Bounce = 1 << 3
)

// Any returns true if at least one wall was hit
func (b Bounce) Any() bool {
	return b != BounceNone
}

// Ball is one disc moving inside a bounding rectangle
type Ball struct {
	X, Y       float64
	XVel, YVel float64
	R          float64
	Color      string
}

// NewBall creates a ball with the given position, velocity, radius and color tag
func NewBall(x, y, xVel, yVel, radius float64, color string) *Ball {
	return &Ball{X: x, Y: y, XVel: xVel, YVel: yVel, R: radius, Color: color}
}

// StepForward advances the ball by one step and reflects it off the walls of [0,width]x[0,height]
// Velocity inversion is tested against the post-increment position before the reflection is applied,
// so a ball moving faster than the bounds allow may invert twice on consecutive steps
func (b *Ball) StepForward(width, height float64) Bounce {
	b.X += b.XVel
	b.Y += b.YVel

	var hit Bounce
	if b.X < 0 || b.X > width {
		b.XVel *= -1
		if b.X < 0 {
			hit |= BounceLeft
		} else {
			hit |= BounceRight
		}
	}
	if b.Y < 0 || b.Y > height {
		b.YVel *= -1
		if b.Y < 0 {
			hit |= BounceTop
		} else {
			hit |= BounceBottom
		}
	}

	b.X = reflect(b.X, width)
	b.Y = reflect(b.Y, height)

	return hit
}

// reflect mirrors an out-of-range coordinate back inside [0,bound] by the overshoot amount
// An overshoot larger than the bound itself is clamped to the nearest wall
func reflect(v, bound float64) float64 {
	switch {
	case v < 0:
		v = -v
	case v > bound:
		v = bound - (v - bound)
	default:
		return v
	}
	return max(0, min(v, bound))
}

// Palette is the set of color tags used by Random
var Palette = []string{"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#5f27cd", "#ff9ff3", "#c8d6e5"}

// Random creates a ball placed uniformly inside [0,width]x[0,height]
// Speed components are in [-maxSpeed, maxSpeed], radius in [minR, maxR)
func Random(rng *rand.Rand, width, height, maxSpeed, minR, maxR float64) *Ball {
	return &Ball{
		X:     rng.Float64() * width,
		Y:     rng.Float64() * height,
		XVel:  (rng.Float64()*2 - 1) * maxSpeed,
		YVel:  (rng.Float64()*2 - 1) * maxSpeed,
		R:     minR + rng.Float64()*(maxR-minR),
		Color: Palette[rng.IntN(len(Palette))],
	}
}
