package tilestream

import "github.com/purduearc/occgrid/internal/geom2"

// AlignDown rounds p down to the nearest tile boundary of width 2^log2W,
// relative to anyTileOrigin (any point already known to sit on a tile
// boundary — the alignment is defined modulo the tile grid, not modulo the
// origin itself).
func AlignDown(p, anyTileOrigin geom2.Vector, log2W int) geom2.Vector {
	return p.Sub(anyTileOrigin).Rsh(uint(log2W)).Lsh(uint(log2W)).Add(anyTileOrigin)
}

// AlignUp rounds p up to the nearest tile boundary of width 2^log2W.
func AlignUp(p, anyTileOrigin geom2.Vector, log2W int) geom2.Vector {
	diff := p.Sub(anyTileOrigin)
	shifted := diff.Rsh(uint(log2W))
	rem := geom2.Vector{X: diff.X - (shifted.X << uint(log2W)), Y: diff.Y - (shifted.Y << uint(log2W))}
	bump := geom2.Vector{X: boolToInt(rem.X > 0), Y: boolToInt(rem.Y > 0)}
	return shifted.Add(bump).Lsh(uint(log2W)).Add(anyTileOrigin)
}

// AlignOut expands box outward to tile-aligned boundaries: its min rounds
// down, its max rounds up, both relative to anyTileOrigin.
func AlignOut(box geom2.Box, anyTileOrigin geom2.Vector, log2W int) geom2.Box {
	return geom2.Box{
		Min: AlignDown(box.Min, anyTileOrigin, log2W),
		Max: AlignUp(box.Max, anyTileOrigin, log2W),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
