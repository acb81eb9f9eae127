package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/models"
	"github.com/appdotbuilder/food-nutri-analyzer-ab6b/services"
	"github.com/go-chi/chi/v5"
)

const maxUploadMemory = 32 << 20

type ImageHandler struct {
	Users *services.UserService
}

func (ih *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "user_id")
	userID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing required form field: file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading upload '%s': %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	sourceType := models.SourceTypeUpload
	if st := r.FormValue("source_type"); st != "" {
		sourceType = models.ImageSourceType(st)
	}

	image, err := ih.Users.CreateFoodImage(uint(userID), data, header.Filename, sourceType)
	if err != nil {
		log.Printf("Error storing upload '%s' for user %d: %v", header.Filename, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	if image == nil {
		writeError(w, http.StatusUnprocessableEntity, "File is not a valid image or exceeds the allowed size")
		return
	}
	writeJSON(w, http.StatusCreated, image)
}

func (ih *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "user_id")
	userID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	images, err := ih.Users.GetUserFoodImages(uint(userID), limit)
	if err != nil {
		log.Printf("Error listing images for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list images")
		return
	}
	if images == nil {
		images = []models.FoodImage{}
	}
	writeJSON(w, http.StatusOK, images)
}

// DeleteImage enforces ownership: the user_id query parameter must match
// the image's owner, otherwise the image is left intact.
func (ih *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "image_id")
	imageID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image ID format")
		return
	}
	userID, err := strconv.ParseUint(r.URL.Query().Get("user_id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing or invalid user_id")
		return
	}

	deleted, err := ih.Users.DeleteFoodImage(uint(imageID), uint(userID))
	if err != nil {
		log.Printf("Error deleting image %d for user %d: %v", imageID, userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
