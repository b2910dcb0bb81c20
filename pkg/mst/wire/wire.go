// Package wire implements the edge-list encoding distributed Kruskal's
// inter-peer messages use: a 32-bit count n followed by 3n 32-bit
// integers (i0, j0, w0, i1, j1, w1, ...). Encoding is fixed-width
// little-endian so peers on different architectures agree on the bytes,
// rather than assuming a shared native integer representation.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/chris-alexander-pop/mst-cohort/pkg/mst/edge"
)

// Encode serializes edges as a little-endian count-prefixed int32 triple
// list.
func Encode(edges []edge.Edge) []byte {
	buf := make([]byte, 4+len(edges)*12)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(edges)))
	off := 4
	for _, e := range edges {
		binary.LittleEndian.PutUint32(buf[off:], uint32(e.I))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(e.J))
		binary.LittleEndian.PutUint32(buf[off+8:], uint32(e.Weight))
		off += 12
	}
	return buf
}

// Decode reverses Encode. Returns an error if buf is truncated relative
// to its own declared count.
func Decode(buf []byte) ([]edge.Edge, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("wire: buffer too short for count header")
	}
	n := int(binary.LittleEndian.Uint32(buf[0:4]))
	if n < 0 || n > (len(buf)-4)/12 {
		return nil, fmt.Errorf("wire: buffer declares %d edges but has only %d bytes", n, len(buf))
	}

	edges := make([]edge.Edge, n)
	off := 4
	for i := 0; i < n; i++ {
		vi := int(binary.LittleEndian.Uint32(buf[off:]))
		vj := int(binary.LittleEndian.Uint32(buf[off+4:]))
		w := int(binary.LittleEndian.Uint32(buf[off+8:]))
		edges[i] = edge.New(vi, vj, w)
		off += 12
	}
	return edges, nil
}
