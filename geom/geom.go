package geom

import (
	"errors"
	"math"
)

// ErrEmptyCollection is returned when a random pick is requested from an empty list
var ErrEmptyCollection = errors.New("geom: empty collection")

// Rand is the random source used across the engine.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Point represents a 2D point or vector in screen pixels
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by s
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Len returns the length of p treated as a vector
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// AngleOf returns the angle in radians of the vector a->b, in (-Pi, Pi]
func AngleOf(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Clamp clamps v into [min, max] inclusive
func Clamp(min, max, v float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MapRange linearly maps v from [inMin, inMax] to [outMin, outMax].
// Values outside the input range are extrapolated, not clamped.
func MapRange(inMin, inMax, outMin, outMax, v float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Uniform returns a uniformly distributed value in [lo, hi)
func Uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// PickRandom returns a uniformly chosen element of list
func PickRandom[T any](rng Rand, list []T) (T, error) {
	var zero T
	if len(list) == 0 {
		return zero, ErrEmptyCollection
	}
	return list[rng.IntN(len(list))], nil
}
