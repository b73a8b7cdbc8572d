package app

import (
	"context"
	"fmt"
	"strings"
)

// SaveImageRequest stores a generated meal image.
type SaveImageRequest struct {
	MealID      string `json:"meal_id"`
	ImageData   string `json:"image_data"`
	ContentType string `json:"content_type"`
}

// SaveMealImage uploads the image to the configured bucket and records
// the hosted URL on the recipe.
func (a *App) SaveMealImage(ctx context.Context, req SaveImageRequest) (string, error) {
	if a.uploader == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	data, format, err := decodeImagePayload(req.ImageData)
	if err != nil {
		return "", err
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/" + format
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	url, err := a.uploader.Upload(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("store meal image: %w", err)
	}

	if req.MealID != "" {
		if err := a.recipes.UpdateImageURL(ctx, req.MealID, url); err != nil {
			a.log.Warn("failed to record meal image url", "meal_id", req.MealID, "error", err)
		}
	}
	return url, nil
}
