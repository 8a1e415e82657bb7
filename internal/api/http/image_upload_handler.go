package http

import (
	"io"
	"net/http"

	"muontra/internal/logger"
	"muontra/internal/service"

	"github.com/gorilla/mux"
)

// ImageUploadResponse carries the URL to put into an item's hinhAnh field.
type ImageUploadResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Key     string `json:"key"`
	URL     string `json:"hinhAnh"`
}

// ImageUploadHandler stores item pictures and serves them back.
type ImageUploadHandler struct {
	images service.ImageService
}

func NewImageUploadHandler(images service.ImageService) *ImageUploadHandler {
	return &ImageUploadHandler{images: images}
}

// HandleUpload accepts either a multipart form with a "file" part or a raw image body.
func (h *ImageUploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	body := io.Reader(r.Body)
	contentType := r.Header.Get("Content-Type")

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
		contentType = header.Header.Get("Content-Type")
	}

	key, url, err := h.images.UploadImage(r.Context(), ActorFromContext(r.Context()), contentType, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.Info("Image stored", "key", key, "contentType", contentType)
	writeJSON(w, http.StatusOK, ImageUploadResponse{
		Message: "image uploaded",
		Success: true,
		Key:     key,
		URL:     url,
	})
}

func (h *ImageUploadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, contentType, err := h.images.OpenImage(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("failed to stream image", "key", key, "error", err)
	}
}
