// Package physics provides distance, angle and steering utilities shared by
// every simulated entity.
package physics

import "math"

// MinForceDistance is the distance below which distance-based forces are
// skipped, so callers never divide by a near-zero length.
const MinForceDistance = 1.0

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// SteerAngle rotates current toward target by the given fraction of the
// shortest angular difference. The result is not normalized; headings are
// free to accumulate full turns.
func SteerAngle(current, target, amount float64) float64 {
	diff := target - current
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return current + diff*amount
}

// Remap linearly maps v from [inMin, inMax] to [outMin, outMax].
// A zero-width input range maps everything to outMin.
func Remap(v, inMin, inMax, outMin, outMax float64) float64 {
	span := inMax - inMin
	if span == 0 {
		return outMin
	}
	return outMin + (v-inMin)/span*(outMax-outMin)
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Falloff returns force*(1-dist/radius) for points strictly inside the radius.
// It returns 0 outside the radius and at or below MinForceDistance.
func Falloff(dist, radius, force float64) float64 {
	if dist >= radius || dist <= MinForceDistance {
		return 0
	}
	return force * (1 - dist/radius)
}

// Impulse returns the vector of length strength pointing along (dx, dy),
// where dist is the precomputed length of (dx, dy). Zero strength or a
// distance at or below MinForceDistance yields a zero vector.
func Impulse(dx, dy, dist, strength float64) (float64, float64) {
	if strength == 0 || dist <= MinForceDistance {
		return 0, 0
	}
	return dx / dist * strength, dy / dist * strength
}
