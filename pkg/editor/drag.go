package editor

// PointerInput is anything that can report a canvas-local pointer position.
// Mouse and touch input drive the same drag state machine through it.
type PointerInput interface {
	// Point returns the pointer position; ok is false when the input
	// carries no usable position (e.g. an empty touch list).
	Point() (p Point, ok bool)
}

// MouseInput is a mouse pointer position.
type MouseInput struct {
	X, Y float64
}

// Point implements PointerInput.
func (m MouseInput) Point() (Point, bool) {
	return Point{X: m.X, Y: m.Y}, true
}

// TouchInput is the list of active touches; only the first one is used.
type TouchInput []Point

// Point implements PointerInput.
func (t TouchInput) Point() (Point, bool) {
	if len(t) == 0 {
		return Point{}, false
	}
	return t[0], true
}

// DragController tracks a single drag gesture (Idle or Dragging).
// The zero value is Idle.
type DragController struct {
	dragging bool
	grab     Point // pointer minus image origin at drag start
}

// Dragging reports whether a drag is active.
func (d *DragController) Dragging() bool {
	return d.dragging
}

// Start begins a drag from the given pointer and current offset.
// It returns false when in has no position.
func (d *DragController) Start(in PointerInput, offset Point) bool {
	p, ok := in.Point()
	if !ok {
		return false
	}
	d.dragging = true
	d.grab = p.Sub(offset)
	return true
}

// Move returns the constrained offset for the pointer position. ok is false
// when no drag is active or in has no position.
// scale must be the current scale so that zooms during a drag are honored.
func (d *DragController) Move(in PointerInput, scale float64, image, canvas Size) (Point, bool) {
	if !d.dragging {
		return Point{}, false
	}
	p, ok := in.Point()
	if !ok {
		return Point{}, false
	}
	return Constrain(p.Sub(d.grab), scale, image, canvas), true
}

// End finishes the drag. It returns true if a drag was active.
func (d *DragController) End() bool {
	was := d.dragging
	d.dragging = false
	d.grab = Point{}
	return was
}
