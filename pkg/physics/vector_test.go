// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func approxVec(a, b Vector2D) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y)
}

func TestVector2D_Arithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: -1, Y: 2}

	if got := a.Add(b); got != (Vector2D{X: 2, Y: 6}) {
		t.Errorf("Add() = %v, want {2 6}", got)
	}
	if got := a.Sub(b); got != (Vector2D{X: 4, Y: 2}) {
		t.Errorf("Sub() = %v, want {4 2}", got)
	}
	if got := a.Scale(-0.5); got != (Vector2D{X: -1.5, Y: -2}) {
		t.Errorf("Scale() = %v, want {-1.5 -2}", got)
	}
	if got := a.Dot(b); got != 5 {
		t.Errorf("Dot() = %v, want 5", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := a.DistanceSquared(b); got != 20 {
		t.Errorf("DistanceSquared() = %v, want 20", got)
	}
}

func TestVector2D_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected Vector2D
	}{
		{"unit_x", Vector2D{X: 7}, Vector2D{X: 1}},
		{"three_four_five", Vector2D{X: 3, Y: 4}, Vector2D{X: 0.6, Y: 0.8}},
		{"zero_stays_zero", Vector2D{}, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Normalize(); !approxVec(got, tt.expected) {
				t.Errorf("Normalize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestVector2D_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		angle    float64
		expected Vector2D
	}{
		{"quarter_turn", Vector2D{X: 1}, math.Pi / 2, Vector2D{Y: 1}},
		{"half_turn", Vector2D{X: 2, Y: 1}, math.Pi, Vector2D{X: -2, Y: -1}},
		{"negative_quarter", Vector2D{X: 1}, -math.Pi / 2, Vector2D{Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Rotate(tt.angle); !approxVec(got, tt.expected) {
				t.Errorf("Rotate(%v) = %v, want %v", tt.angle, got, tt.expected)
			}
		})
	}
}

func TestVector2D_RotateZeroIsExact(t *testing.T) {
	v := Vector2D{X: 0.1, Y: 1.0 / 3.0}
	if got := v.Rotate(0); got != v {
		t.Errorf("Rotate(0) = %v, want %v", got, v)
	}
}

func TestFromAngle(t *testing.T) {
	got := FromAngle(math.Pi/2, 3)
	if !approxVec(got, Vector2D{Y: 3}) {
		t.Errorf("FromAngle() = %v, want {0 3}", got)
	}
	if a := (Vector2D{X: -1, Y: 0}).Angle(); !approxEqual(a, math.Pi) {
		t.Errorf("Angle() = %v, want π", a)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		expected float64
	}{
		{"in_range", 1.5, 1.5},
		{"zero", 0, 0},
		{"negative", -math.Pi / 2, 3 * math.Pi / 2},
		{"above_full_turn", FullTurn + 0.25, 0.25},
		{"exact_full_turn", FullTurn, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapAngle(tt.angle)
			if !approxEqual(got, tt.expected) {
				t.Errorf("WrapAngle(%v) = %v, want %v", tt.angle, got, tt.expected)
			}
			if got < 0 || got >= FullTurn {
				t.Errorf("WrapAngle(%v) = %v, out of [0, 2π)", tt.angle, got)
			}
		})
	}
}

func TestClampAndSignum(t *testing.T) {
	if got := Clamp(5, -1, 1); got != 1 {
		t.Errorf("Clamp(5) = %v, want 1", got)
	}
	if got := Clamp(-5, -1, 1); got != -1 {
		t.Errorf("Clamp(-5) = %v, want -1", got)
	}
	if got := Clamp(0.5, -1, 1); got != 0.5 {
		t.Errorf("Clamp(0.5) = %v, want 0.5", got)
	}
	if got := Signum(0); got != 1 {
		t.Errorf("Signum(0) = %v, want 1", got)
	}
	if got := Signum(-3); got != -1 {
		t.Errorf("Signum(-3) = %v, want -1", got)
	}
}

func BenchmarkVector2D_Rotate(b *testing.B) {
	v := Vector2D{X: 3, Y: 4}
	for i := 0; i < b.N; i++ {
		v = v.Rotate(0.01)
	}
}
