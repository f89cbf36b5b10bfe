package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// Features is what the recommender extracted from the uploaded image.
type Features struct {
	BodyType  string `json:"body_type"`
	SkinTone  string `json:"skin_tone"`
	FaceShape string `json:"face_shape"`
}

// Result carries the recommender's outfit candidates already projected
// into the catalog-entity shape the cart accepts.
type Result struct {
	Features Features               `json:"features"`
	Outfits  []domain.CatalogEntity `json:"outfits"`
}

// outfitDTO mirrors the recommender's wire format.
type outfitDTO struct {
	OutfitID       string  `json:"outfit_id"`
	Top            string  `json:"top"`
	TopColor       string  `json:"top_color"`
	Bottom         string  `json:"bottom"`
	BottomColor    string  `json:"bottom_color"`
	Occasion       string  `json:"occasion"`
	TotalPrice     float64 `json:"total_price"`
	TopImageURL    string  `json:"top_image_url"`
	BottomImageURL string  `json:"bottom_image_url"`
}

type responseDTO struct {
	Features Features    `json:"features"`
	Outfits  []outfitDTO `json:"outfits"`
	Error    string      `json:"error,omitempty"`
}

// Client talks to the external image-analysis service. One shot, bounded
// by the client timeout, no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) AnalyzeImage(ctx context.Context, filename string, image io.Reader) (*Result, error) {
	body, contentType, err := buildMultipartBody(filename, image)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze_image", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommender request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded responseDTO
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode recommender response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return nil, fmt.Errorf("recommender rejected image: %s", decoded.Error)
		}
		return nil, fmt.Errorf("recommender returned status %d", resp.StatusCode)
	}

	result := &Result{Features: decoded.Features}
	for _, dto := range decoded.Outfits {
		result.Outfits = append(result.Outfits, toEntity(dto))
	}
	return result, nil
}

func buildMultipartBody(filename string, image io.Reader) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, image); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	return pr, writer.FormDataContentType(), nil
}

func toEntity(dto outfitDTO) domain.CatalogEntity {
	return domain.CatalogEntity{
		Kind:       domain.KindOutfit,
		ID:         dto.OutfitID,
		Name:       dto.Top + " & " + dto.Bottom,
		TotalPrice: dto.TotalPrice,
		Occasion:   dto.Occasion,
		Top: &domain.OutfitComponent{
			Color:    dto.TopColor,
			ImageURL: dto.TopImageURL,
		},
		Bottom: &domain.OutfitComponent{
			Color:    dto.BottomColor,
			ImageURL: dto.BottomImageURL,
		},
	}
}
