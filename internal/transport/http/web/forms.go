package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sahiltiwari-png/guccc-hrms/internal/apiclient"
)

const maxMultipartMemory = 8 << 20

var ErrNoFile = errors.New("no file submitted")

// Upload is one file taken from a multipart form.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// FormNumber parses a non-negative amount. A blank field yields nil.
func FormNumber(raw string) (*apiclient.Number, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("must not be negative")
	}
	n := apiclient.NewNumber(d)
	return &n, nil
}

// FormFiles reads every file submitted under field, up to max files.
func FormFiles(r *http.Request, field string, max int) ([]Upload, error) {
	if err := parseMultipart(r); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	var out []Upload
	for _, fh := range headers {
		if fh.Size == 0 && fh.Filename == "" {
			continue
		}
		if max > 0 && len(out) == max {
			return out, fmt.Errorf("at most %d files", max)
		}
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}

// FormFile reads the single file submitted under field.
func FormFile(r *http.Request, field string) (Upload, error) {
	files, err := FormFiles(r, field, 1)
	if err != nil {
		return Upload{}, err
	}
	if len(files) == 0 {
		return Upload{}, ErrNoFile
	}
	return files[0], nil
}

func parseMultipart(r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseForm()
	}
	return r.ParseMultipartForm(maxMultipartMemory)
}

func readUpload(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Upload{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

// ParseForm parses either a urlencoded or a multipart body.
func ParseForm(r *http.Request) error {
	return parseMultipart(r)
}

// Values copies the named form fields for re-rendering a rejected form.
func Values(r *http.Request, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = strings.TrimSpace(r.FormValue(name))
	}
	return out
}
