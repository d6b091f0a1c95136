// Package imageprep shrinks uploaded images before they are forwarded to the
// backend's file storage.
package imageprep

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

var formats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/jpg":  imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

// Downscale fits images within maxPx on their longest side. Files that are not
// a supported image type, or are already small enough, are returned unchanged.
func Downscale(f File, maxPx int) (File, error) {
	format, ok := formats[strings.ToLower(f.ContentType)]
	if !ok || maxPx <= 0 {
		return f, nil
	}
	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return File{}, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= maxPx && b.Dy() <= maxPx {
		return f, nil
	}
	resized := imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return File{}, fmt.Errorf("encode image: %w", err)
	}
	f.Data = buf.Bytes()
	return f, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// UniqueName returns a collision-free, filesystem-safe upload name.
func UniqueName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	safe := unsafeChars.ReplaceAllString(base, "_")
	return fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), uuid.NewString(), safe)
}
