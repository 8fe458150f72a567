// pkg/physics/vector.go
package physics

import "math"

// FullTurn is one full revolution in radians.
const FullTurn = 2 * math.Pi

// Vector2D is a point or direction in world space.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies both components by factor.
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared avoids the square root for distance comparisons.
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector pointing the same way, or the zero vector
// when v has no length.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// Distance returns the distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// DistanceSquared returns the squared distance between two points.
func (v Vector2D) DistanceSquared(other Vector2D) float64 {
	return v.Sub(other).LengthSquared()
}

// Angle returns the direction of the vector in radians, in (-π, π].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Rotate rotates the vector counter-clockwise by angle radians.
// Rotating by exactly zero returns v unchanged.
func (v Vector2D) Rotate(angle float64) Vector2D {
	if angle == 0 {
		return v
	}
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{X: magnitude, Y: 0}.Rotate(angle)
}

// UnitFromAngle is the facing direction for angle.
func UnitFromAngle(angle float64) Vector2D {
	return FromAngle(angle, 1)
}

// WrapAngle maps angle into [0, 2π).
func WrapAngle(angle float64) float64 {
	r := math.Mod(angle, FullTurn)
	if r < 0 {
		r += FullTurn
	}
	if r >= FullTurn {
		r = 0
	}
	return r
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Signum returns 1 for positive values and positive zero, -1 otherwise.
func Signum(x float64) float64 {
	return math.Copysign(1, x)
}
