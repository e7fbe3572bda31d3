package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := 5.0
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if math.Abs(l-1) > 1e-15 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	got := Vec3{}.Normalize()
	if !got.IsZero() {
		t.Errorf("Vec3{}.Normalize() = %v, want zero vector", got)
	}
}

func TestVec3MultiplyComponents(t *testing.T) {
	got := Vec3{1, 2, 3}.MultiplyComponents(Vec3{4, 5, 6})
	want := Vec3{4, 10, 18}
	if got != want {
		t.Errorf("MultiplyComponents() = %v, want %v", got, want)
	}
}

func TestVec3MinMaxComponent(t *testing.T) {
	v := Vec3{3, -1, 2}
	if v.MinComponent() != -1 {
		t.Errorf("MinComponent() = %v, want -1", v.MinComponent())
	}
	if v.MaxComponent() != 3 {
		t.Errorf("MaxComponent() = %v, want 3", v.MaxComponent())
	}
}

func TestVec3Set(t *testing.T) {
	var v Vec3
	if got := v.Set(1, 2, 3); got != &v {
		t.Error("Set should return its receiver")
	}
	if v != (Vec3{1, 2, 3}) {
		t.Errorf("Set() wrote %v", v)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	if (Vec3{math.Inf(1), 0, 0}).IsFinite() {
		t.Error("infinite component not detected")
	}
	if (Vec3{0, math.NaN(), 0}).IsFinite() {
		t.Error("NaN component not detected")
	}
}

func TestEqualsEpsilon(t *testing.T) {
	tests := []struct {
		a, b, eps float64
		want      bool
	}{
		{1, 1, 0, true},
		{1, 1.1, 0.01, false},
		{1e7, 1e7 + 0.5, 1e-7, true}, // relative
		{0, 1e-9, 1e-8, true},        // absolute
		{0, 1e-7, 1e-8, false},
	}
	for _, tt := range tests {
		if got := EqualsEpsilon(tt.a, tt.b, tt.eps); got != tt.want {
			t.Errorf("EqualsEpsilon(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.eps, got, tt.want)
		}
	}
}

func TestVec3String(t *testing.T) {
	if got := (Vec3{1, 2, 3}).String(); got != "(1, 2, 3)" {
		t.Errorf("String() = %q", got)
	}
}
