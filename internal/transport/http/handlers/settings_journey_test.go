package handlers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
)

func TestProfileSaveRefreshesSessionUser(t *testing.T) {
	p := newPortal(t, nil)
	client := signIn(t, p, "asha@example.com", employeePassword)

	form := get(t, client, p.URL+"/settings")
	if form.Status != http.StatusOK {
		t.Fatalf("expected settings 200, got %d", form.Status)
	}
	expectContains(t, form.Body, "Asha")

	res := postMultipart(t, client, p.URL+"/settings", map[string]string{
		"firstName": "Asha",
		"lastName":  "Kumar",
		"email":     "asha@example.com",
		"phone":     "9845012345",
	}, attachment{field: "photo", name: "me.png", data: pngBytes(t)})
	if res.Status != http.StatusSeeOther || res.Location != "/settings" {
		t.Fatalf("expected redirect to settings, got %d %q: %s", res.Status, res.Location, res.Body)
	}

	if n := len(p.backend.find(http.MethodPost, "/upload")); n != 1 {
		t.Fatalf("expected the photo to be uploaded first, got %d uploads", n)
	}
	saved := p.backend.find(http.MethodPut, "/auth/employees/emp-1")
	if len(saved) != 1 {
		t.Fatalf("expected one profile update, got %d", len(saved))
	}
	if saved[0].Body["name"] != "Asha Kumar" || saved[0].Body["profilePhotoUrl"] != "https://files.test/doc-1" {
		t.Fatalf("unexpected profile payload %v", saved[0].Body)
	}

	dash := get(t, client, p.URL+"/dashboard")
	expectContains(t, dash.Body, "Asha Kumar")
	expectContains(t, dash.Body, "https://files.test/doc-1")
}

func TestProfileSaveValidation(t *testing.T) {
	p := newPortal(t, nil)
	client := signIn(t, p, "asha@example.com", employeePassword)

	res := postMultipart(t, client, p.URL+"/settings", map[string]string{
		"firstName": "",
		"email":     "nope",
	}, attachment{field: "photo", name: "me.png", data: pngBytes(t)})
	if res.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Status)
	}
	if n := len(p.backend.find(http.MethodPut, "/auth/employees/emp-1")); n != 0 {
		t.Fatal("invalid profile must not be saved")
	}
	if n := len(p.backend.find(http.MethodPost, "/upload")); n != 0 {
		t.Fatalf("invalid profile must not upload its photo, got %d uploads", n)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 300))
	img.Set(10, 10, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
