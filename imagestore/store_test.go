package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), 10<<20, 2048)
	require.NoError(t, err)
	return store
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func transparentPNGBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateAcceptsValidImage(t *testing.T) {
	store := newTestStore(t)
	data := jpegBytes(t, 100, 100)

	assert.True(t, store.Validate(data, "test_food.jpg"))
	assert.True(t, store.Validate(data, "TEST_FOOD.JPEG"))
}

func TestValidateRejectsNonImageBytes(t *testing.T) {
	store := newTestStore(t)

	// extension alone must not be trusted
	assert.False(t, store.Validate([]byte("This is not an image"), "x.jpg"))
	assert.False(t, store.Validate([]byte{}, "empty.png"))
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t)
	data := jpegBytes(t, 50, 50)

	assert.False(t, store.Validate(data, "test.txt"))
	assert.False(t, store.Validate(data, "test.pdf"))
	assert.False(t, store.Validate(data, "noextension"))
}

func TestValidateRejectsOversizedPayload(t *testing.T) {
	store, err := NewStore(t.TempDir(), 64, 2048)
	require.NoError(t, err)

	oversized := make([]byte, 65)
	assert.False(t, store.Validate(oversized, "test.jpg"))
}

func TestSaveWritesFileAndReportsMetadata(t *testing.T) {
	store := newTestStore(t)
	data := jpegBytes(t, 100, 100)

	saved, err := store.Save(data, "test_food.jpg")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(saved.Path))
	assert.Equal(t, filepath.Ext(saved.Filename), ".jpg")
	assert.NotEqual(t, "test_food.jpg", saved.Filename)
	assert.Equal(t, 100, saved.Width)
	assert.Equal(t, 100, saved.Height)
	assert.Greater(t, saved.Size, int64(0))

	_, err = os.Stat(saved.Path)
	assert.NoError(t, err)
}

func TestSaveResizesLargeImagePreservingAspectRatio(t *testing.T) {
	store := newTestStore(t)
	data := jpegBytes(t, 3000, 2000)

	saved, err := store.Save(data, "huge_meal.jpg")
	require.NoError(t, err)

	assert.LessOrEqual(t, saved.Width, 2048)
	assert.LessOrEqual(t, saved.Height, 2048)

	ratio := float64(saved.Width) / float64(saved.Height)
	assert.InDelta(t, 1.5, ratio, 0.01)

	_, err = os.Stat(saved.Path)
	assert.NoError(t, err)
}

func TestSaveFlattensAlphaToOpaqueRGB(t *testing.T) {
	store := newTestStore(t)
	data := transparentPNGBytes(t, 100, 100)

	saved, err := store.Save(data, "transparent.png")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(saved.Filename))

	f, err := os.Open(saved.Path)
	require.NoError(t, err)
	defer f.Close()

	decoded, _, err := image.Decode(f)
	require.NoError(t, err)

	_, _, _, a := decoded.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestSaveReencodesWebpAsJPEG(t *testing.T) {
	store := newTestStore(t)
	// Save only rejects undecodable bytes in Validate; here we exercise the
	// extension mapping with a decodable payload carrying a .webp name
	data := jpegBytes(t, 60, 60)

	saved, err := store.Save(data, "snack.webp")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(saved.Filename))
}

func TestResolvePath(t *testing.T) {
	store := newTestStore(t)
	saved, err := store.Save(jpegBytes(t, 40, 40), "food.jpg")
	require.NoError(t, err)

	path, ok := store.ResolvePath(saved.Filename)
	assert.True(t, ok)
	assert.Equal(t, saved.Path, path)

	_, ok = store.ResolvePath("nonexistent.jpg")
	assert.False(t, ok)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	saved, err := store.Save(jpegBytes(t, 40, 40), "food.jpg")
	require.NoError(t, err)

	assert.True(t, store.Delete(saved.Path))
	_, err = os.Stat(saved.Path)
	assert.True(t, os.IsNotExist(err))

	// deleting again, or deleting a path that never existed, still succeeds
	assert.True(t, store.Delete(saved.Path))
	assert.True(t, store.Delete("/path/that/does/not/exist.jpg"))
}

func TestMimeTypeForFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", "image/jpeg"},
		{"image.jpeg", "image/jpeg"},
		{"screenshot.PNG", "image/png"},
		{"animated.webp", "image/webp"},
		{"bitmap.bmp", "image/bmp"},
		{"unknown.xyz", "image/jpeg"},
		{"noextension", "image/jpeg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MimeTypeForFilename(tc.filename), tc.filename)
	}
}
