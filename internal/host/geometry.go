package host

import (
	"fmt"
	"math"
)

// Vec2 is a point or size in screen pixels.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2             { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2             { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2        { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64                { return math.Hypot(v.X, v.Y) }
func (v Vec2) String() string              { return fmt.Sprintf("(%.1f,%.1f)", v.X, v.Y) }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Rect is an axis-aligned rectangle, Min inclusive and Max exclusive.
type Rect struct {
	Min, Max Vec2
}

// RectFromSize builds a rectangle from its top-left corner and size.
func RectFromSize(pos, size Vec2) Rect {
	return Rect{Min: pos, Max: pos.Add(size)}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Vec2      { return Vec2{r.Width(), r.Height()} }
func (r Rect) Center() Vec2    { return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X < r.Max.X && p.Y < r.Max.Y
}

// Intersect clips r against o. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s-%s]", r.Min, r.Max)
}
