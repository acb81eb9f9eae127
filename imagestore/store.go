package imagestore

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	_ "golang.org/x/image/webp" // decode-only webp support
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
}

// SavedImage describes the file written by Save, reflecting any resize or
// re-encode that happened on the way in.
type SavedImage struct {
	Filename string
	Path     string
	Size     int64
	Width    int
	Height   int
}

// Store validates, normalizes and persists uploaded food images under a
// single managed directory. Filenames are generated UUIDs, so concurrent
// saves cannot collide.
type Store struct {
	dir          string
	maxFileSize  int64
	maxDimension int
}

// NewStore creates a store rooted at dir, creating the directory if absent.
func NewStore(dir string, maxFileSize int64, maxDimension int) (*Store, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid upload directory '%s': %w", dir, err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory '%s': %w", absDir, err)
	}
	return &Store{dir: absDir, maxFileSize: maxFileSize, maxDimension: maxDimension}, nil
}

// Dir returns the absolute managed upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Validate reports whether data is an acceptable upload: within the size
// cap, carrying an allowed extension, and actually decodable as an image.
// The content check matters because the downstream AI call assumes
// decodable image data; the extension alone proves nothing.
func (s *Store) Validate(data []byte, filename string) bool {
	if int64(len(data)) > s.maxFileSize {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return false
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return false
	}
	return true
}

// Save decodes, normalizes and writes an upload under a generated UUID
// filename that preserves the original extension. Images carrying an alpha
// or palette channel are flattened to plain RGB, and images exceeding the
// configured maximum dimension are downsampled with Lanczos preserving
// aspect ratio.
func (s *Store) Save(data []byte, originalFilename string) (*SavedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", originalFilename, err)
	}

	img = flattenToRGB(img)

	bounds := img.Bounds()
	if bounds.Dx() > s.maxDimension || bounds.Dy() > s.maxDimension {
		img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	// webp can be decoded but not encoded, so re-encoded output is JPEG
	if ext == ".webp" || ext == "" {
		ext = ".jpg"
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate filename: %w", err)
	}
	filename := id.String() + ext
	savePath := filepath.Join(s.dir, filename)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure upload directory '%s': %w", s.dir, err)
	}
	if err := imaging.Save(img, savePath, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to save image to '%s': %w", savePath, err)
	}

	info, err := os.Stat(savePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat saved image '%s': %w", savePath, err)
	}

	final := img.Bounds()
	log.Printf("imagestore: saved %s (%dx%d, %d bytes) from '%s'", filename, final.Dx(), final.Dy(), info.Size(), originalFilename)
	return &SavedImage{
		Filename: filename,
		Path:     savePath,
		Size:     info.Size(),
		Width:    final.Dx(),
		Height:   final.Dy(),
	}, nil
}

// ResolvePath returns the absolute path of a managed file, or false when
// no such file exists. Only filenames inside the managed directory are
// considered; path components in filename are stripped.
func (s *Store) ResolvePath(filename string) (string, bool) {
	full := filepath.Join(s.dir, filepath.Base(filename))
	if _, err := os.Stat(full); err != nil {
		return "", false
	}
	return full, true
}

// Delete removes a stored file. Deleting a missing file counts as success
// so callers can retry blindly.
func (s *Store) Delete(path string) bool {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		log.Printf("imagestore: failed to delete %s: %v", path, err)
		return false
	}
	return true
}

// flattenToRGB composites images that carry an alpha or palette channel
// onto an opaque white canvas so every stored image is plain RGB.
func flattenToRGB(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64, *image.Paletted:
		flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		return imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	default:
		return img
	}
}
