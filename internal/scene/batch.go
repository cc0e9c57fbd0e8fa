package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// maxBatchVertices keeps quad indices inside uint16.
const maxBatchVertices = 64000

// Source rectangle inside the 3x3 white image used to fill triangles.
const (
	srcMin = 1
	srcMax = 2
	srcMid = 1.5
)

type batch struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

// quadBuffer collects screen-space quads into as many batches as needed.
// Batches are kept across frames and truncated on reset.
type quadBuffer struct {
	batches []batch
	used    int
}

func (q *quadBuffer) reset() {
	for i := range q.batches {
		q.batches[i].vertices = q.batches[i].vertices[:0]
		q.batches[i].indices = q.batches[i].indices[:0]
	}
	q.used = 0
}

func (q *quadBuffer) release() {
	q.batches = nil
	q.used = 0
}

// add appends a square of half-width half centred on (x, y).
func (q *quadBuffer) add(x, y, half, r, g, b float32) {
	if q.used == 0 || len(q.batches[q.used-1].vertices)+4 > maxBatchVertices {
		if q.used == len(q.batches) {
			q.batches = append(q.batches, batch{})
		}
		q.used++
	}
	bt := &q.batches[q.used-1]
	base := uint16(len(bt.vertices))
	bt.vertices = append(bt.vertices,
		ebiten.Vertex{DstX: x - half, DstY: y - half, SrcX: srcMin, SrcY: srcMin, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
		ebiten.Vertex{DstX: x - half, DstY: y + half, SrcX: srcMin, SrcY: srcMax, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
		ebiten.Vertex{DstX: x + half, DstY: y - half, SrcX: srcMax, SrcY: srcMin, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
		ebiten.Vertex{DstX: x + half, DstY: y + half, SrcX: srcMax, SrcY: srcMax, ColorR: r, ColorG: g, ColorB: b, ColorA: 1},
	)
	bt.indices = append(bt.indices, base, base+1, base+2, base+1, base+3, base+2)
}

func (q *quadBuffer) quads() int {
	n := 0
	for i := 0; i < q.used; i++ {
		n += len(q.batches[i].vertices) / 4
	}
	return n
}

func (q *quadBuffer) draw(dst, src *ebiten.Image, op *ebiten.DrawTrianglesOptions) {
	for i := 0; i < q.used; i++ {
		bt := &q.batches[i]
		if len(bt.indices) == 0 {
			continue
		}
		dst.DrawTriangles(bt.vertices, bt.indices, src, op)
	}
}
