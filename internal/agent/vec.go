package agent

import "math"

// Vec3i is an integer world coordinate.
type Vec3i struct{ X, Y, Z int }

func V3(arr [3]int) Vec3i { return Vec3i{arr[0], arr[1], arr[2]} }

func (v Vec3i) Arr() [3]int { return [3]int{v.X, v.Y, v.Z} }

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}
func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3i) DistSq(o Vec3i) int {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

func (v Vec3i) Dist(o Vec3i) float64 {
	return math.Sqrt(float64(v.DistSq(o)))
}

// Manhattan is the walkable step distance, used for adjacency checks.
func (v Vec3i) Manhattan(o Vec3i) int {
	return abs(v.X-o.X) + abs(v.Y-o.Y) + abs(v.Z-o.Z)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
