// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Vector2D) bool {
	return c.Center.DistanceSquared(p) <= c.Radius*c.Radius
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Hitbox is a rectangle in the body's local frame, x pointing forward.
type Hitbox struct {
	Mins Vector2D
	Maxs Vector2D
}

// Corners returns back-left, front-left, front-right and back-right corners
// of the hitbox placed at pos and rotated by angle.
func (h Hitbox) Corners(pos Vector2D, angle float64) [4]Vector2D {
	return [4]Vector2D{
		pos.Add(Vector2D{X: h.Mins.X, Y: h.Mins.Y}.Rotate(angle)),
		pos.Add(Vector2D{X: h.Maxs.X, Y: h.Mins.Y}.Rotate(angle)),
		pos.Add(Vector2D{X: h.Maxs.X, Y: h.Maxs.Y}.Rotate(angle)),
		pos.Add(Vector2D{X: h.Mins.X, Y: h.Maxs.Y}.Rotate(angle)),
	}
}

// ClosestOnSegment returns the point of segment a-b nearest to p.
func ClosestOnSegment(a, b, p Vector2D) Vector2D {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(t))
}

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// RectAround returns the square of half-size radius centered on p.
func RectAround(p Vector2D, radius float64) Rect {
	return Rect{Center: p, Width: 2 * radius, Height: 2 * radius}
}

// Contains uses half-open bounds so a point on a shared edge belongs to
// exactly one quadrant.
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Intersects reports whether the two rectangles overlap or touch.
func (r Rect) Intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// QuadTree for spatial partitioning. Query results come back in tree
// order, callers needing a stable order must sort them.
type QuadTree[T any] struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Objects   []T
	Divided   bool
	NorthWest *QuadTree[T]
	NorthEast *QuadTree[T]
	SouthWest *QuadTree[T]
	SouthEast *QuadTree[T]
}

// minQuadSize is the smallest node width that still subdivides.
const minQuadSize = 1.0 / 1024

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Objects:  make([]T, 0, capacity),
	}
}

// Insert stores object at point. Points outside the boundary are rejected.
func (qt *QuadTree[T]) Insert(point Vector2D, object T) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	// Nodes stop splitting at minQuadSize so coincident points cannot
	// recurse forever; such a leaf just grows past capacity.
	if !qt.Divided && (len(qt.Points) < qt.Capacity || qt.Boundary.Width <= minQuadSize) {
		qt.Points = append(qt.Points, point)
		qt.Objects = append(qt.Objects, object)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, object) ||
		qt.NorthEast.Insert(point, object) ||
		qt.SouthWest.Insert(point, object) ||
		qt.SouthEast.Insert(point, object)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree[T]) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	quadrant := func(dx, dy float64) *QuadTree[T] {
		r := Rect{Center: Vector2D{X: x + dx*w/2, Y: y + dy*h/2}, Width: w, Height: h}
		return NewQuadTree[T](r, qt.Capacity)
	}
	qt.NorthWest = quadrant(-1, 1)
	qt.NorthEast = quadrant(1, 1)
	qt.SouthWest = quadrant(-1, -1)
	qt.SouthEast = quadrant(1, -1)
	qt.Divided = true
}

// Clear drops every stored object and collapses the subdivisions.
func (qt *QuadTree[T]) Clear() {
	qt.Points = qt.Points[:0]
	var zero T
	for i := range qt.Objects {
		qt.Objects[i] = zero
	}
	qt.Objects = qt.Objects[:0]
	qt.Divided = false
	qt.NorthWest, qt.NorthEast, qt.SouthWest, qt.SouthEast = nil, nil, nil, nil
}

// Query returns every object whose point lies inside area.
func (qt *QuadTree[T]) Query(area Rect) []T {
	return qt.query(area, nil)
}

func (qt *QuadTree[T]) query(area Rect, found []T) []T {
	if !qt.Boundary.Intersects(area) {
		return found
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			found = append(found, qt.Objects[i])
		}
	}

	if !qt.Divided {
		return found
	}

	found = qt.NorthWest.query(area, found)
	found = qt.NorthEast.query(area, found)
	found = qt.SouthWest.query(area, found)
	return qt.SouthEast.query(area, found)
}
