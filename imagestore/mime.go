package imagestore

import (
	"path/filepath"
	"strings"
)

var mimeTypesByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// MimeTypeForFilename maps a filename extension (case-insensitive) to its
// MIME type. Unrecognized or missing extensions default to image/jpeg.
func MimeTypeForFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := mimeTypesByExtension[ext]; ok {
		return mime
	}
	return "image/jpeg"
}
