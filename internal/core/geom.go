// Package core provides fundamental types and utilities for the invaders
// platform. It contains no external dependencies (especially no Bubble Tea)
// to keep game logic pure and testable.
package core

import "math"

// Vec2 is a point or direction in world space.
// World space is Y-up: larger Y is closer to the top of the screen.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Box is an axis-aligned bounding box described by its center and
// half extents. Used for trigger overlap tests.
type Box struct {
	Center Vec2
	HalfW  float64
	HalfH  float64
}

// NewBox creates a box centered at c.
func NewBox(c Vec2, halfW, halfH float64) Box {
	return Box{Center: c, HalfW: halfW, HalfH: halfH}
}

// Left returns the x-coordinate of the left edge.
func (b Box) Left() float64 { return b.Center.X - b.HalfW }

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 { return b.Center.X + b.HalfW }

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Center.Y - b.HalfH }

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float64 { return b.Center.Y + b.HalfH }

// Intersects returns true if this box overlaps with another.
// Touching edges do not count as an overlap.
func (b Box) Intersects(other Box) bool {
	if b.Left() >= other.Right() || other.Left() >= b.Right() {
		return false
	}
	if b.Bottom() >= other.Top() || other.Bottom() >= b.Top() {
		return false
	}
	return true
}

// Contains returns true if the point p lies inside the box.
func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Left() && p.X < b.Right() && p.Y >= b.Bottom() && p.Y < b.Top()
}

// Sweep returns the smallest box covering b at both from and to.
// Fast projectiles use it so they cannot tunnel through thin targets
// between two ticks.
func Sweep(from, to Vec2, halfW, halfH float64) Box {
	minX, maxX := math.Min(from.X, to.X), math.Max(from.X, to.X)
	minY, maxY := math.Min(from.Y, to.Y), math.Max(from.Y, to.Y)
	return Box{
		Center: Vec2{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		HalfW:  (maxX-minX)/2 + halfW,
		HalfH:  (maxY-minY)/2 + halfH,
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
