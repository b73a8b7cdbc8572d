package app

import (
	"context"
	"encoding/base64"
	"testing"
)

func TestSaveMealImage(t *testing.T) {
	uploader := &stubUploader{url: "https://cdn.example/meal-images/abc.jpg"}
	recipes := newStubRecipeStore()
	a := newTestApp(testDeps{uploader: uploader, recipes: recipes})

	payload := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	url, err := a.SaveMealImage(context.Background(), SaveImageRequest{MealID: "r1", ImageData: payload})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if url != uploader.url {
		t.Errorf("expected the hosted url back, got %q", url)
	}
	if string(uploader.gotData) != "jpeg-bytes" {
		t.Errorf("unexpected uploaded bytes: %q", uploader.gotData)
	}
	if uploader.contentType != "image/jpeg" {
		t.Errorf("expected inferred jpeg content type, got %q", uploader.contentType)
	}
	if recipes.imageURLs["r1"] != uploader.url {
		t.Errorf("expected the url recorded on the recipe, got %q", recipes.imageURLs["r1"])
	}
}

func TestSaveMealImageWithoutUploader(t *testing.T) {
	a := newTestApp(testDeps{})

	payload := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	if _, err := a.SaveMealImage(context.Background(), SaveImageRequest{ImageData: payload}); err == nil {
		t.Fatal("expected an error when image storage is not configured")
	}
}

func TestSaveMealImageRejectsNonImageContentType(t *testing.T) {
	a := newTestApp(testDeps{uploader: &stubUploader{url: "https://cdn.example/x"}})

	payload := base64.StdEncoding.EncodeToString([]byte("bytes"))
	req := SaveImageRequest{ImageData: payload, ContentType: "application/octet-stream"}
	if _, err := a.SaveMealImage(context.Background(), req); err == nil {
		t.Fatal("expected an error for a non-image content type")
	}
}
