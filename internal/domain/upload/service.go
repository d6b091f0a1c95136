// Package upload forwards browser files to the backend's file storage and
// returns the URL the owning form then saves.
package upload

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/imageprep"
)

var ErrNoURL = errors.New("upload response carried no file url")

type Service struct {
	client     *apiclient.Client
	imageMaxPx int
}

func NewService(client *apiclient.Client, imageMaxPx int) *Service {
	return &Service{client: client, imageMaxPx: imageMaxPx}
}

type response struct {
	URL     string `json:"url"`
	FileURL string `json:"fileUrl"`
	Data    *struct {
		URL     string `json:"url"`
		FileURL string `json:"fileUrl"`
	} `json:"data"`
}

func (r response) url() string {
	switch {
	case r.URL != "":
		return r.URL
	case r.Data != nil && r.Data.URL != "":
		return r.Data.URL
	case r.Data != nil && r.Data.FileURL != "":
		return r.Data.FileURL
	}
	return r.FileURL
}

// UploadFile stores one file and returns its URL.
func (s *Service) UploadFile(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var resp response
	part := apiclient.UploadPart{Name: imageprep.UniqueName(name), ContentType: contentType, Data: data}
	if err := s.client.Upload(ctx, "/upload", part, &resp); err != nil {
		slog.Warn("file upload failed", "name", name, "err", err)
		return "", err
	}
	url := strings.TrimSpace(resp.url())
	if url == "" {
		return "", ErrNoURL
	}
	return url, nil
}

// UploadImage downscales an image before storing it. Non-image files are
// stored unchanged.
func (s *Service) UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	f, err := imageprep.Downscale(imageprep.File{Name: name, ContentType: contentType, Data: data}, s.imageMaxPx)
	if err != nil {
		slog.Warn("image downscale failed, uploading original", "name", name, "err", err)
		f = imageprep.File{Name: name, ContentType: contentType, Data: data}
	}
	return s.UploadFile(ctx, f.Name, f.ContentType, f.Data)
}
