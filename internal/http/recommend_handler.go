package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/recommend"
)

type RecommendHandler struct {
	client        *recommend.Client
	timeout       time.Duration
	maxUploadSize int64
}

func NewRecommendHandler(client *recommend.Client, timeout time.Duration, maxUploadSize int64) *RecommendHandler {
	return &RecommendHandler{
		client:        client,
		timeout:       timeout,
		maxUploadSize: maxUploadSize,
	}
}

// Recommend forwards an uploaded image to the external recommender and
// returns its outfit candidates in the catalog-entity shape.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_image", "image file is required")
		return
	}
	defer file.Close()

	result, err := h.client.AnalyzeImage(ctx, header.Filename, file)
	if err != nil {
		log.Printf("recommender call failed: %v", err)
		respondError(w, http.StatusBadGateway, "recommender_unavailable", "could not analyze image")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
