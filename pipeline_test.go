package main

import (
	"math"
	"testing"
)

func approx32(got float32, want float64) bool {
	return math.Abs(float64(got)-want) < 1e-4
}

func TestProjectQuadFullViewport(t *testing.T) {
	vs := projectQuad(1.0, 1.0, 800, 600, 1600, 900)
	if len(vs) != 4 {
		t.Fatalf("vertex count = %d, want 4", len(vs))
	}

	// Corner order follows the unit quad: bottom-left, bottom-right,
	// top-right, top-left. Screen Y grows downward.
	expected := []struct {
		dstX, dstY float64
		srcX, srcY float64
	}{
		{0, 600, 0, 900},
		{800, 600, 1600, 900},
		{800, 0, 1600, 0},
		{0, 0, 0, 0},
	}

	for i, e := range expected {
		v := vs[i]
		if !approx32(v.DstX, e.dstX) || !approx32(v.DstY, e.dstY) {
			t.Errorf("vertex %d dst = (%v, %v), want (%v, %v)", i, v.DstX, v.DstY, e.dstX, e.dstY)
		}
		if !approx32(v.SrcX, e.srcX) || !approx32(v.SrcY, e.srcY) {
			t.Errorf("vertex %d src = (%v, %v), want (%v, %v)", i, v.SrcX, v.SrcY, e.srcX, e.srcY)
		}
		if v.ColorR != 1 || v.ColorG != 1 || v.ColorB != 1 || v.ColorA != 1 {
			t.Errorf("vertex %d color modulated: %+v", i, v)
		}
	}
}

// A 1600x900 image fit into an 800x800 viewport letterboxes vertically:
// full width, 56.25% height, centered.
func TestProjectQuadLetterboxed(t *testing.T) {
	sx, sy := computeScale(1600, 900, 800, 800, 1.0)
	vs := projectQuad(sx, sy, 800, 800, 1600, 900)

	top := float64(vs[2].DstY)
	bottom := float64(vs[0].DstY)
	if !approx32(vs[0].DstX, 0) || !approx32(vs[1].DstX, 800) {
		t.Errorf("quad does not span full width: x from %v to %v", vs[0].DstX, vs[1].DstX)
	}
	if math.Abs(bottom-top-450) > 1e-3 {
		t.Errorf("quad height = %v, want 450", bottom-top)
	}
	// Centered: equal margins above and below.
	if math.Abs(top-(800-bottom)) > 1e-3 {
		t.Errorf("quad not centered: top margin %v, bottom margin %v", top, 800-bottom)
	}
}

func TestProjectQuadZoomScalesSymmetrically(t *testing.T) {
	base := projectQuad(0.5, 0.5, 1000, 1000, 100, 100)
	zoomed := projectQuad(1.0, 1.0, 1000, 1000, 100, 100)

	baseW := float64(base[1].DstX - base[0].DstX)
	zoomedW := float64(zoomed[1].DstX - zoomed[0].DstX)
	if math.Abs(zoomedW-2*baseW) > 1e-3 {
		t.Errorf("doubling scale did not double width: %v vs %v", baseW, zoomedW)
	}

	// The quad stays centered under scaling.
	center := (float64(zoomed[0].DstX) + float64(zoomed[1].DstX)) / 2
	if math.Abs(center-500) > 1e-3 {
		t.Errorf("quad center = %v, want 500", center)
	}
}

func TestQuadIndices(t *testing.T) {
	if len(quadIndices) != 6 {
		t.Fatalf("index count = %d, want 6 (two triangles)", len(quadIndices))
	}
	for _, idx := range quadIndices {
		if idx >= uint16(len(quadVertices)) {
			t.Errorf("index %d out of range", idx)
		}
	}

	// Every vertex participates in at least one triangle.
	seen := make(map[uint16]bool)
	for _, idx := range quadIndices {
		seen[idx] = true
	}
	if len(seen) != len(quadVertices) {
		t.Errorf("indices reference %d distinct vertices, want %d", len(seen), len(quadVertices))
	}
}

// The V coordinate is flipped relative to Y: NDC bottom maps to the last
// texture row.
func TestQuadVerticesUVFlip(t *testing.T) {
	for i, q := range quadVertices {
		wantV := float32(0)
		if q.y < 0 {
			wantV = 1
		}
		if q.v != wantV {
			t.Errorf("vertex %d: y=%v has v=%v, want %v", i, q.y, q.v, wantV)
		}
		wantU := float32(0)
		if q.x > 0 {
			wantU = 1
		}
		if q.u != wantU {
			t.Errorf("vertex %d: x=%v has u=%v, want %v", i, q.x, q.u, wantU)
		}
	}
}
