package item

// Style is the fill used to paint an item. It is opaque to this package.
type Style struct {
	Fill string
}

// NoStyle paints nothing.
var NoStyle = Style{}

// Point is a position relative to the parent item.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in the item's own coordinates.
type Rect struct {
	X, Y, W, H float64
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns r moved by p.
func (r Rect) Translate(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

// Layout holds the spacing used by Reorder to position children.
type Layout struct {
	BoxWidth  float64
	BoxHeight float64

	SiteSpacing     float64 // vertical distance between sites
	ProgramIndent   float64
	ProgramSpacing  float64
	FunctionIndent  float64
	FunctionSpacing float64
}

// DefaultLayout returns the spacing of the stock graph view.
func DefaultLayout() Layout {
	return Layout{
		BoxWidth:        120,
		BoxHeight:       24,
		SiteSpacing:     130,
		ProgramIndent:   15,
		ProgramSpacing:  60,
		FunctionIndent:  30,
		FunctionSpacing: 30,
	}
}

// Hint is what a renderer needs to paint one item.
type Hint struct {
	Label       string
	Style       Style
	Collapsed   bool
	Visible     bool
	HasChildren bool
}
