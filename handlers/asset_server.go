package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadServer serves stored food images from the managed upload
// directory. Filenames are opaque UUIDs, so there is no directory
// structure to expose; anything containing a path separator is rejected.
func UploadServer(uploadDir string) http.HandlerFunc {
	cleanUploadDir := filepath.Clean(uploadDir)
	log.Printf("Serving uploads for '/uploads/*' from directory: %s", cleanUploadDir)

	return func(w http.ResponseWriter, r *http.Request) {
		filename := strings.TrimPrefix(r.URL.Path, "/uploads/")
		if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		assetPath := filepath.Join(cleanUploadDir, filename)
		if _, err := os.Stat(assetPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			log.Printf("Error stating asset file %s: %v", assetPath, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, assetPath)
	}
}
