package occtile

// Separated is a tile with two occupancy layers: Required cells are never
// cleared, Temporary cells may be observed or forgotten. The invariant
// Required ⊆ Temporary must hold at every call boundary.
type Separated struct {
	Temporary Plain
	Required  Plain
}

// NewSeparated returns an all-clear separated tile of width 2^log2W.
func NewSeparated(log2W int) Separated {
	return Separated{Temporary: NewPlain(log2W), Required: NewPlain(log2W)}
}

// Log2W returns the tile's log2 width.
func (s Separated) Log2W() int { return s.Temporary.log2W }

// SetRequired marks (x, y) required, which also makes it temporary,
// preserving Required ⊆ Temporary.
func (s Separated) SetRequired(x, y int, v bool) {
	s.Required.SetBit(x, y, v)
	if v {
		s.Temporary.SetBit(x, y, true)
	}
}

// SetTemporary marks (x, y) temporary. Clearing a cell that is required is a
// no-op: Required ⊆ Temporary must hold afterward.
func (s Separated) SetTemporary(x, y int, v bool) {
	if !v && s.Required.GetBit(x, y) {
		return
	}
	s.Temporary.SetBit(x, y, v)
}

// GetOcc reports whether (x, y) is occupied in either layer.
func (s Separated) GetOcc(x, y int) bool {
	return s.Temporary.GetBit(x, y)
}
