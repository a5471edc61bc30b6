package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	_ "golang.org/x/image/webp"
)

const (
	fetchTimeout = 15 * time.Second
	maxFetchSize = 32 << 20
	pdfDPI       = 110

	// DefaultMaxPixels bounds the decoded size of a bitmap (about 256 MB RGBA).
	DefaultMaxPixels = 64 << 20
)

var ErrTooLarge = errors.New("image too large")

// Loader resolves image references: local paths or http(s) URLs. A PDF
// reference yields its first page.
type Loader struct {
	Client    *http.Client
	MaxPixels int
}

// NewLoader creates a Loader with a bounded HTTP client.
func NewLoader() *Loader {
	return &Loader{Client: &http.Client{Timeout: fetchTimeout}, MaxPixels: DefaultMaxPixels}
}

// Load fetches and decodes ref.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.read(ctx, ref)
	if err != nil {
		return nil, err
	}

	if isPDF(ref, data) {
		return renderPDF(data)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	if limit := l.MaxPixels; limit > 0 && (cfg.Width > limit/max(cfg.Height, 1) || cfg.Width*cfg.Height > limit) {
		return nil, fmt.Errorf("decode %s: %dx%d: %w", ref, cfg.Width, cfg.Height, ErrTooLarge)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

// LoadOptional is Load for optional assets: an empty reference or any
// failure yields nil, failures are logged.
func (l *Loader) LoadOptional(ctx context.Context, ref, what string) image.Image {
	if ref == "" {
		return nil
	}
	img, err := l.Load(ctx, ref)
	if err != nil {
		log.Printf("[!] Failed to load %s %q, continuing without it: %v", what, ref, err)
		return nil
	}
	return img
}

func (l *Loader) read(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return os.ReadFile(ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %s", ref, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
}

func isPDF(ref string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(ref), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-"))
}

func renderPDF(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	return doc.ImageDPI(0, pdfDPI)
}
