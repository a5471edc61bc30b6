package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	if err := os.WriteFile(path, pngBytes(t, 40, 30), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := NewLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("Unexpected bounds: %v", img.Bounds())
	}
}

func TestLoadRemote(t *testing.T) {
	data := pngBytes(t, 16, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader()
	if _, err := l.Load(context.Background(), srv.URL+"/logo.png"); err != nil {
		t.Errorf("Remote load failed: %v", err)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Expected error for 404")
	}
}

func TestLoadOptionalFallsBack(t *testing.T) {
	l := NewLoader()
	ctx := context.Background()

	if img := l.LoadOptional(ctx, "", "logo"); img != nil {
		t.Error("Empty reference should yield nil")
	}
	if img := l.LoadOptional(ctx, filepath.Join(t.TempDir(), "nope.jpg"), "background"); img != nil {
		t.Error("Missing file should yield nil")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	os.WriteFile(garbage, []byte("not an image"), 0644)
	if img := l.LoadOptional(ctx, garbage, "background"); img != nil {
		t.Error("Undecodable file should yield nil")
	}
}

func TestLoadRejectsOversizedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, pngBytes(t, 40, 30), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		maxPixels int
		wantErr   bool
	}{
		{0, false},
		{1200, false},
		{1199, true},
		{100, true},
	}
	for _, tt := range tests {
		l := NewLoader()
		l.MaxPixels = tt.maxPixels
		_, err := l.Load(context.Background(), path)
		if tt.wantErr != errors.Is(err, ErrTooLarge) {
			t.Errorf("MaxPixels=%d: got err %v", tt.maxPixels, err)
		}
	}

	l := NewLoader()
	l.MaxPixels = 100
	if img := l.LoadOptional(context.Background(), path, "background"); img != nil {
		t.Error("Oversized image should fall back to nil")
	}
}
