package file

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
)

func TestEncodeImage_Formats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for _, format := range []string{"JPEG", "JPG", "PNG", "GIF", "BMP", "TIFF", "WEBP"} {
		encoded, err := EncodeImage(img, format)
		if err != nil {
			t.Fatalf("EncodeImage(%s) failed: %v", format, err)
		}
		if len(encoded) == 0 {
			t.Fatalf("EncodeImage(%s) produced no bytes", format)
		}
	}
	if _, err := EncodeImage(img, "HEIC"); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("unsupported format: want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}
}

func TestImageMode(t *testing.T) {
	cases := []struct {
		img  image.Image
		want string
	}{
		{image.NewGray(image.Rect(0, 0, 1, 1)), "L"},
		{image.NewCMYK(image.Rect(0, 0, 1, 1)), "CMYK"},
		{image.NewRGBA(image.Rect(0, 0, 1, 1)), "RGBA"},
		{image.NewYCbCr(image.Rect(0, 0, 1, 1), image.YCbCrSubsampleRatio420), "RGB"},
	}
	for _, tc := range cases {
		if got := imageMode(tc.img); got != tc.want {
			t.Fatalf("imageMode want=%q got=%q", tc.want, got)
		}
	}
}

func TestRoundRatio(t *testing.T) {
	if got := roundRatio(1000, 500); got != 2 {
		t.Fatalf("ratio want=2 got=%v", got)
	}
	if got := roundRatio(1, 0); got != 0 {
		t.Fatalf("zero height ratio want=0 got=%v", got)
	}
}

func TestReadAsBase64Images_SingleImage(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 10))); err != nil {
		t.Fatalf("encode seed image failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scan.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	provider, err := NewLocalProvider(domain.FileProviderConfig{ImageFormat: "PNG"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewLocalProvider failed: %v", err)
	}

	pages, err := ReadAsBase64Images(context.Background(), provider, "scan.png", nil)
	if err != nil {
		t.Fatalf("ReadAsBase64Images failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages want=1 got=%d", len(pages))
	}
	page := pages[0]
	if page.Page != 1 || page.Width != 20 || page.Height != 10 || page.AspectRatio != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Format != "PNG" {
		t.Fatalf("format want=PNG got=%q", page.Format)
	}
	if page.Content == "" {
		t.Fatalf("page content is empty")
	}

	// a single-image file has exactly one page
	one := 1
	pages, err = ReadAsBase64Images(context.Background(), provider, "scan.png", &one)
	if err != nil {
		t.Fatalf("ReadAsBase64Images page 1 failed: %v", err)
	}
	if len(pages) != 1 || pages[0].Page != 1 {
		t.Fatalf("page 1 want a single page numbered 1, got %+v", pages)
	}
	two := 2
	if _, err := ReadAsBase64Images(context.Background(), provider, "scan.png", &two); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("page 2 of a single image: want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}

	metadata, err := ReadMetadata(context.Background(), provider, "scan.png")
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if metadata.Path != "scan.png" || len(metadata.Pages) != 1 || metadata.Pages[0].Width != 20 {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}
}
