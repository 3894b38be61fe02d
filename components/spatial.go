package components

// Position is an agent's grid cell. X in [0, W), Y in [0, H).
type Position struct {
	X, Y int
}

// Index returns the row-major field index of the cell for a grid of width w.
func (p Position) Index(w int) int {
	return p.X + p.Y*w
}
