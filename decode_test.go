package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// encodePNG builds an in-memory PNG with a distinct color per pixel row.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(y * 40), G: uint8(x * 40), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeBytesNormalizes(t *testing.T) {
	data := encodePNG(t, 3, 2)

	img, err := decodeBytes(data, "test.png")
	if err != nil {
		t.Fatalf("decodeBytes: %v", err)
	}
	if img.Width != 3 || img.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 3x2", img.Width, img.Height)
	}
	if len(img.Pix) != 3*2*4 {
		t.Errorf("pixel buffer = %d bytes, want %d", len(img.Pix), 3*2*4)
	}

	// Pixel (1, 1) in RGBA order.
	off := (1*3 + 1) * 4
	want := []byte{40, 40, 128, 255}
	for i, b := range want {
		if img.Pix[off+i] != b {
			t.Errorf("pixel (1,1) byte %d = %d, want %d", i, img.Pix[off+i], b)
		}
	}
}

// A translucent source must come out with straight alpha, not premultiplied.
func TestDecodeBytesStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png encode: %v", err)
	}

	img, err := decodeBytes(buf.Bytes(), "alpha.png")
	if err != nil {
		t.Fatalf("decodeBytes: %v", err)
	}
	want := []byte{200, 100, 50, 128}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("byte %d = %d, want %d (straight alpha)", i, img.Pix[i], b)
		}
	}
}

func TestDecodeBytesBMP(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}

	img, err := decodeBytes(buf.Bytes(), "test.bmp")
	if err != nil {
		t.Fatalf("decodeBytes: %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", img.Width, img.Height)
	}
}

func TestDecodeBytesFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty input", nil},
		{"Garbage bytes", []byte("this is not an image")},
		{"Truncated PNG", encodePNG(t, 4, 4)[:12]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeBytes(tt.data, "bad")
			if !errors.Is(err, ErrLoadFailed) {
				t.Errorf("expected ErrLoadFailed, got %v", err)
			}
		})
	}
}

func TestDecoderCacheHit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, encodePNG(t, 2, 2), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := NewDecoder(4)
	ref := ImageRef{Path: path}
	first, err := d.Decode(ref)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// Delete the backing file: a second decode can only succeed via cache.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := d.Decode(ref)
	if err != nil {
		t.Fatalf("Decode after remove: %v", err)
	}
	if first != second {
		t.Error("second decode returned a different object, expected cache hit")
	}
}

func TestDecoderMissingFile(t *testing.T) {
	d := NewDecoder(4)
	_, err := d.Decode(ImageRef{Path: filepath.Join(t.TempDir(), "gone.png")})
	if !errors.Is(err, ErrLoadFailed) {
		t.Errorf("expected ErrLoadFailed, got %v", err)
	}
}

func TestDecoderZipEntry(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "imgs.zip")
	writeTestZip(t, archivePath, map[string][]byte{
		"a.png": encodePNG(t, 2, 3),
	})

	d := NewDecoder(4)
	img, err := d.Decode(ImageRef{
		Path:        archivePath + ":a.png",
		ArchivePath: archivePath,
		EntryPath:   "a.png",
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 2 || img.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 2x3", img.Width, img.Height)
	}
}

func TestResolveStream(t *testing.T) {
	d := NewDecoder(4)
	seq, err := ResolveStream(encodePNG(t, 5, 4), d)
	if err != nil {
		t.Fatalf("ResolveStream: %v", err)
	}
	if seq.Len() != 1 {
		t.Fatalf("stream sequence length = %d, want 1", seq.Len())
	}

	// The validating decode populated the cache, so the session's first
	// load must be a hit returning the same object.
	first, err := d.Decode(seq.Current())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if first.Width != 5 || first.Height != 4 {
		t.Errorf("dimensions = %dx%d, want 5x4", first.Width, first.Height)
	}
	second, _ := d.Decode(seq.Current())
	if first != second {
		t.Error("stream decode was not served from cache")
	}
}

func TestResolveStreamCorrupt(t *testing.T) {
	d := NewDecoder(4)
	_, err := ResolveStream([]byte("not an image"), d)
	if !errors.Is(err, ErrLoadFailed) {
		t.Errorf("expected ErrLoadFailed, got %v", err)
	}
}

func TestDecodedImageNRGBA(t *testing.T) {
	img := &DecodedImage{Width: 2, Height: 1, Pix: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	n := img.NRGBA()
	if n.Stride != 8 || n.Rect.Dx() != 2 || n.Rect.Dy() != 1 {
		t.Errorf("unexpected wrap geometry: stride=%d rect=%v", n.Stride, n.Rect)
	}
	// No copy: the wrapper aliases the buffer.
	n.Pix[0] = 99
	if img.Pix[0] != 99 {
		t.Error("NRGBA copied the pixel buffer")
	}
}
