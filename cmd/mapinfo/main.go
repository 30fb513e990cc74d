// Command mapinfo prints a persistent map file's header fields and a
// content hash, for spot-checking a map without writing to it.
package main

import (
	"fmt"
	"os"

	"github.com/purduearc/occgrid/internal/occfile"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: mapinfo <file.occ>\n")
		os.Exit(1)
	}
	path := os.Args[1]

	hdr, err := occfile.PeekHeader(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, err := occfile.Open(path, hdr.Origin, hdr.Log2TileW, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Origin: X=%d, Y=%d\n", hdr.Origin.X, hdr.Origin.Y)
	fmt.Printf("Tile width: %d (log2=%d)\n", 1<<hdr.Log2TileW, hdr.Log2TileW)
	fmt.Printf("Quadtree depth: %d\n", hdr.Depth)
	fmt.Printf("File size: %d bytes\n", hdr.Size)

	bounds := m.GetBounds()
	fmt.Printf("Bounds: X=[%d, %d], Y=[%d, %d]\n", bounds.Min.X, bounds.Max.X, bounds.Min.Y, bounds.Max.Y)

	hash, err := m.ContentHash()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing content: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Content hash: %016x\n", hash)
}
