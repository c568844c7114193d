package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodedImage is the normalized pixel buffer for one image: RGBA channel
// order, 8 bits per channel, straight (non-premultiplied) alpha. Pix holds
// exactly Width*Height*4 bytes.
type DecodedImage struct {
	Width  int
	Height int
	Pix    []byte
}

// NRGBA wraps the buffer as an image.NRGBA without copying. The NRGBA type
// carries the same straight-alpha byte layout.
func (d *DecodedImage) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    d.Pix,
		Stride: d.Width * 4,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
}

// Decoder turns ImageRefs into DecodedImages. A small LRU keyed by ref ID
// keeps recently shown images so stepping back does not re-decode; entries
// are only populated by explicit navigation, never speculatively.
type Decoder struct {
	cache *lru.Cache[string, *DecodedImage]
}

// NewDecoder creates a Decoder with the given cache capacity.
func NewDecoder(cacheSize int) *Decoder {
	cache, err := lru.New[string, *DecodedImage](cacheSize)
	if err != nil {
		logger.Error().Str("component", "decode").Err(err).Msg("failed to create LRU cache")
		cache, _ = lru.New[string, *DecodedImage](16)
	}
	return &Decoder{cache: cache}
}

// Decode reads and decodes the referenced image, converting it to the
// normalized layout. It blocks the calling goroutine for the duration of
// file I/O and pixel conversion; there is no cancellation.
func (d *Decoder) Decode(ref ImageRef) (*DecodedImage, error) {
	key := ref.ID()
	if img, ok := d.cache.Get(key); ok {
		logger.Debug().Str("component", "decode").Str("image", key).Msg("cache hit")
		return img, nil
	}

	data, err := readRefBytes(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, ref.Label(), err)
	}

	img, err := decodeBytes(data, ref.Label())
	if err != nil {
		return nil, err
	}

	d.cache.Add(key, img)
	logger.Debug().Str("component", "decode").Str("image", key).
		Int("width", img.Width).Int("height", img.Height).Msg("decoded")
	return img, nil
}

// decodeBytes decodes encoded bytes and normalizes the result. Only the
// first frame of an animated GIF is decoded, by way of image.Decode.
func decodeBytes(data []byte, label string) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty input", ErrLoadFailed, label)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, label, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %s: zero-area image", ErrLoadFailed, label)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	return &DecodedImage{Width: w, Height: h, Pix: dst.Pix}, nil
}

// readRefBytes fetches the raw encoded bytes backing a ref.
func readRefBytes(ref ImageRef) ([]byte, error) {
	if ref.Data != nil {
		return ref.Data, nil
	}
	if ref.ArchivePath == "" {
		return os.ReadFile(ref.Path)
	}

	switch strings.ToLower(filepath.Ext(ref.ArchivePath)) {
	case ".zip":
		return readZipEntry(ref.ArchivePath, ref.EntryPath)
	case ".rar":
		return readRarEntry(ref.ArchivePath, ref.EntryPath)
	case ".7z":
		return read7zEntry(ref.ArchivePath, ref.EntryPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", ref.ArchivePath)
	}
}

func readZipEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readRarEntry(archivePath, entryPath string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func read7zEntry(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}
