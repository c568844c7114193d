package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// streamLabel is the synthetic label given to an image read from stdin.
const streamLabel = "stream-image"

// ImageRef identifies one displayable image without holding its pixels.
// Exactly one backing form is populated: a file path, an archive entry
// (ArchivePath + EntryPath), or an in-memory blob for stream input.
type ImageRef struct {
	Path        string // local file path, or "archive:entry" display form
	ArchivePath string // empty for regular files and streams
	EntryPath   string // empty for regular files and streams
	Data        []byte // non-nil only for stream-sourced refs
}

// ID returns the stable identity used as the decode-cache key.
func (r ImageRef) ID() string {
	if r.Path != "" {
		return r.Path
	}
	return streamLabel
}

// Label returns the display name for the ref.
func (r ImageRef) Label() string {
	if r.Data != nil {
		return streamLabel
	}
	if r.EntryPath != "" {
		return r.EntryPath
	}
	return filepath.Base(r.Path)
}

// ImageSequence is an ordered, non-empty list of refs plus the current
// index. The list is immutable after resolution; only the index moves.
type ImageSequence struct {
	refs []ImageRef
	idx  int
}

func newImageSequence(refs []ImageRef) (*ImageSequence, error) {
	if len(refs) == 0 {
		return nil, ErrEmptyDirectory
	}
	return &ImageSequence{refs: refs}, nil
}

func (s *ImageSequence) Len() int   { return len(s.refs) }
func (s *ImageSequence) Index() int { return s.idx }

func (s *ImageSequence) Current() ImageRef { return s.refs[s.idx] }

// At returns the ref at i, reporting whether i is in range.
func (s *ImageSequence) At(i int) (ImageRef, bool) {
	if i < 0 || i >= len(s.refs) {
		return ImageRef{}, false
	}
	return s.refs[i], true
}

// Move sets the current index if i is in range.
func (s *ImageSequence) Move(i int) bool {
	if i < 0 || i >= len(s.refs) {
		return false
	}
	s.idx = i
	return true
}

// Recognized image extensions for directory and archive listings. The match
// is an exact lowercase comparison; "photo.JPG" is not listed.
func isSupportedExt(path string) bool {
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp":
		return true
	default:
		return false
	}
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

// ResolveInput turns a path argument into an ImageSequence. It is called
// exactly once per process invocation; the result never changes afterward
// except for index movement.
func ResolveInput(path string, sortMethod int) (*ImageSequence, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if info.IsDir() {
		return resolveDirectory(path, sortMethod)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInvalidPath, path)
	}
	if isArchiveExt(path) {
		return resolveArchive(path, sortMethod)
	}
	return newImageSequence([]ImageRef{{Path: path}})
}

// ResolveStream wraps already-read encoded bytes as a single-image sequence.
// The bytes are validated by an eager decode through the decoder so that a
// corrupt stream fails at startup; the decode result stays in the decoder's
// cache, so the session's first load does not decode twice.
func ResolveStream(data []byte, decoder *Decoder) (*ImageSequence, error) {
	ref := ImageRef{Data: data}
	if _, err := decoder.Decode(ref); err != nil {
		return nil, err
	}
	return newImageSequence([]ImageRef{ref})
}

// resolveDirectory lists entries directly inside dir (no recursion), keeps
// recognized image files, and orders them with the configured strategy.
func resolveDirectory(dir string, sortMethod int) (*ImageSequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, dir)
	}

	var refs []ImageRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isSupportedExt(entry.Name()) {
			refs = append(refs, ImageRef{Path: filepath.Join(dir, entry.Name())})
		}
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDirectory, dir)
	}

	sorted := GetSortStrategy(sortMethod).Sort(refs)
	logger.Debug().Str("component", "source").
		Str("dir", dir).Int("count", len(sorted)).Msg("resolved directory")
	return newImageSequence(sorted)
}

// resolveArchive lists recognized image entries inside a zip, rar or 7z
// archive, ordered like a directory listing.
func resolveArchive(archivePath string, sortMethod int) (*ImageSequence, error) {
	var (
		refs []ImageRef
		err  error
	)
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		refs, err = listZipImages(archivePath)
	case ".rar":
		refs, err = listRarImages(archivePath)
	case ".7z":
		refs, err = list7zImages(archivePath)
	default:
		return nil, fmt.Errorf("%w: unsupported archive %s", ErrInvalidPath, archivePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading archive %s: %v", ErrInvalidPath, archivePath, err)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDirectory, archivePath)
	}

	sorted := GetSortStrategy(sortMethod).Sort(refs)
	logger.Debug().Str("component", "source").
		Str("archive", archivePath).Int("count", len(sorted)).Msg("resolved archive")
	return newImageSequence(sorted)
}

func listZipImages(archivePath string) ([]ImageRef, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var refs []ImageRef
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			refs = append(refs, ImageRef{
				Path:        archivePath + ":" + f.Name,
				ArchivePath: archivePath,
				EntryPath:   f.Name,
			})
		}
	}
	return refs, nil
}

func listRarImages(archivePath string) ([]ImageRef, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var refs []ImageRef
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			refs = append(refs, ImageRef{
				Path:        archivePath + ":" + header.Name,
				ArchivePath: archivePath,
				EntryPath:   header.Name,
			})
		}
	}
	return refs, nil
}

func list7zImages(archivePath string) ([]ImageRef, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var refs []ImageRef
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			refs = append(refs, ImageRef{
				Path:        archivePath + ":" + f.Name,
				ArchivePath: archivePath,
				EntryPath:   f.Name,
			})
		}
	}
	return refs, nil
}
