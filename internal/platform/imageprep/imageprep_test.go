package imageprep

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDownscaleLargeImage(t *testing.T) {
	in := File{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 1200, 600)}
	out, err := Downscale(in, 300)
	if err != nil {
		t.Fatalf("downscale: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 150 {
		t.Fatalf("expected 300x150, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDownscaleKeepsSmallAndNonImageFiles(t *testing.T) {
	small := File{Name: "s.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)}
	out, err := Downscale(small, 300)
	if err != nil || !bytes.Equal(out.Data, small.Data) {
		t.Fatalf("expected small image unchanged, err=%v", err)
	}

	doc := File{Name: "note.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	out, err = Downscale(doc, 300)
	if err != nil || !bytes.Equal(out.Data, doc.Data) {
		t.Fatalf("expected pdf unchanged, err=%v", err)
	}
}

func TestDownscaleRejectsCorruptImage(t *testing.T) {
	_, err := Downscale(File{ContentType: "image/jpeg", Data: []byte("nope")}, 100)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestUniqueName(t *testing.T) {
	a := UniqueName("my photo (1).png")
	b := UniqueName("my photo (1).png")
	if a == b {
		t.Fatal("expected unique names")
	}
	if strings.ContainsAny(a, " ()") || !strings.HasSuffix(a, "my_photo_1_.png") {
		t.Fatalf("unexpected sanitized name %q", a)
	}
}
