package physics

import (
	"math"
	"testing"
)

// TestVec3Creation tests creating new Vec3
func TestVec3Creation(t *testing.T) {
	v := NewVec3(1.0, 2.0, 3.0)

	if v.X != 1.0 {
		t.Errorf("Expected X=1.0, got %f", v.X)
	}
	if v.Y != 2.0 {
		t.Errorf("Expected Y=2.0, got %f", v.Y)
	}
	if v.Z != 3.0 {
		t.Errorf("Expected Z=3.0, got %f", v.Z)
	}
}

// TestVec3Add tests vector addition
func TestVec3Add(t *testing.T) {
	v1 := NewVec3(1.0, 2.0, 3.0)
	v2 := NewVec3(4.0, 5.0, 6.0)

	result := v1.Add(v2)

	if result.X != 5.0 || result.Y != 7.0 || result.Z != 9.0 {
		t.Errorf("Expected (5,7,9), got (%f,%f,%f)", result.X, result.Y, result.Z)
	}
}

// TestVec3Sub tests vector subtraction
func TestVec3Sub(t *testing.T) {
	v1 := NewVec3(5.0, 7.0, 9.0)
	v2 := NewVec3(1.0, 2.0, 3.0)

	result := v1.Sub(v2)

	if result.X != 4.0 || result.Y != 5.0 || result.Z != 6.0 {
		t.Errorf("Expected (4,5,6), got (%f,%f,%f)", result.X, result.Y, result.Z)
	}
}

// TestVec3Scale tests vector scaling
func TestVec3Scale(t *testing.T) {
	v := NewVec3(2.0, 3.0, 4.0)

	result := v.Scale(2.0)

	if result.X != 4.0 || result.Y != 6.0 || result.Z != 8.0 {
		t.Errorf("Expected (4,6,8), got (%f,%f,%f)", result.X, result.Y, result.Z)
	}
}

// TestVec3Length tests vector magnitude calculation
func TestVec3Length(t *testing.T) {
	v := NewVec3(3.0, 4.0, 0.0)

	if v.Length() != 5.0 {
		t.Errorf("Expected length 5.0, got %f", v.Length())
	}

	if v.LengthSq() != 25.0 {
		t.Errorf("Expected squared length 25.0, got %f", v.LengthSq())
	}
}

// TestVec3Normalize tests vector normalization
func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3.0, 4.0, 0.0)
	unit := v.Normalize()

	if math.Abs(float64(unit.Length()-1.0)) > 1e-6 {
		t.Errorf("Expected unit length, got %f", unit.Length())
	}

	zero := NewVec3(0, 0, 0).Normalize()
	if zero.X != 0 || zero.Y != 0 || zero.Z != 0 {
		t.Errorf("Normalizing zero vector should return zero, got %v", zero)
	}
}

// TestVec3Dot tests the dot product
func TestVec3Dot(t *testing.T) {
	v1 := NewVec3(1.0, 2.0, 3.0)
	v2 := NewVec3(4.0, -5.0, 6.0)

	if got := v1.Dot(v2); got != 12.0 {
		t.Errorf("Expected dot product 12.0, got %f", got)
	}
}

// TestVec3Cross tests the cross product
func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	z := x.Cross(y)
	if z.X != 0 || z.Y != 0 || z.Z != 1 {
		t.Errorf("Expected (0,0,1), got (%f,%f,%f)", z.X, z.Y, z.Z)
	}
}

// TestVec3IsFinite tests the finiteness check
func TestVec3IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Finite vector reported as non-finite")
	}
	if NewVec3(float32(math.NaN()), 0, 0).IsFinite() {
		t.Error("NaN component not detected")
	}
	if NewVec3(0, float32(math.Inf(1)), 0).IsFinite() {
		t.Error("Infinite component not detected")
	}
}
