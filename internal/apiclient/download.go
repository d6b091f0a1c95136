package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const maxDownload = 64 << 20

// File is a server-provided binary response.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Download fetches a binary resource. The name and content type come from the
// response headers, falling back to fallbackName and application/octet-stream.
func (c *Client) Download(ctx context.Context, path string, q *Query, fallbackName string) (File, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return File{}, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.send(req, path)
	if err != nil {
		return File{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return File{}, fmt.Errorf("read download: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = fallbackName
	}
	return File{Name: name, ContentType: contentType, Data: data}, nil
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := strings.TrimSpace(params["filename"])
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}
