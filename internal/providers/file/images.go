package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/chai2010/webp"
	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"

	"github.com/yungbote/mrkr-backend/internal/domain"
)

const jpegQuality = 90

// ReadAsImages renders the file at path into page images. PDFs rasterize at
// the configured DPI; everything else decodes to exactly one image at page 1.
// A non-nil page restricts rendering to that 1-based page, so anything other
// than page 1 is out of range for a non-PDF.
func ReadAsImages(ctx context.Context, provider FileProvider, path string, page *int) ([]image.Image, error) {
	stream, err := provider.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	raw, err := io.ReadAll(stream)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeIO, "read file", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return renderPdf(raw, provider.Config().PdfDpi, page)
	}

	if page != nil && *page != 1 {
		return nil, domain.BadRequest("page %d is out of range (document has 1 page)", *page)
	}
	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeDecode, "decode image", err)
	}
	return []image.Image{decoded}, nil
}

func renderPdf(raw []byte, dpi int, page *int) ([]image.Image, error) {
	if dpi <= 0 {
		dpi = domain.DefaultPdfDpi
	}
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeDecode, "open pdf", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	first, last := 0, pageCount-1
	if page != nil {
		if *page < 1 || *page > pageCount {
			return nil, domain.BadRequest("page %d is out of range (document has %d pages)", *page, pageCount)
		}
		first, last = *page-1, *page-1
	}

	var images []image.Image
	for i := first; i <= last; i++ {
		rendered, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, domain.NewError(domain.ErrorCodeDecode, fmt.Sprintf("render pdf page %d", i+1), err)
		}
		images = append(images, rendered)
	}
	return images, nil
}

// ReadAsBase64Images renders pages and serializes each to the provider's
// configured image format, base64-encoded with dimensions attached.
func ReadAsBase64Images(ctx context.Context, provider FileProvider, path string, page *int) ([]domain.PageContent, error) {
	images, err := ReadAsImages(ctx, provider, path, page)
	if err != nil {
		return nil, err
	}

	format := provider.Config().ImageFormat
	if format == "" {
		format = domain.DefaultImageFormat
	}

	firstPage := 1
	if page != nil {
		firstPage = *page
	}

	var result []domain.PageContent
	for i, img := range images {
		encoded, err := EncodeImage(img, format)
		if err != nil {
			return nil, err
		}
		bounds := img.Bounds()
		result = append(result, domain.PageContent{
			Content:     base64.StdEncoding.EncodeToString(encoded),
			Page:        firstPage + i,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			AspectRatio: roundRatio(bounds.Dx(), bounds.Dy()),
			Format:      strings.ToUpper(format),
			Mode:        imageMode(img),
		})
	}
	return result, nil
}

// ReadMetadata renders pages and reports their dimensions without payloads.
func ReadMetadata(ctx context.Context, provider FileProvider, path string) (*domain.DocumentMetadata, error) {
	images, err := ReadAsImages(ctx, provider, path, nil)
	if err != nil {
		return nil, err
	}
	format := strings.ToUpper(provider.Config().ImageFormat)
	metadata := &domain.DocumentMetadata{Path: path}
	for i, img := range images {
		bounds := img.Bounds()
		metadata.Pages = append(metadata.Pages, domain.PageMetadata{
			Page:        i + 1,
			Width:       bounds.Dx(),
			Height:      bounds.Dy(),
			AspectRatio: roundRatio(bounds.Dx(), bounds.Dy()),
			Format:      format,
			Mode:        imageMode(img),
		})
	}
	return metadata, nil
}

// EncodeImage serializes an image to the named format.
func EncodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToUpper(format) {
	case "JPEG", "JPG":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case "PNG":
		err = png.Encode(&buf, img)
	case "GIF":
		err = gif.Encode(&buf, img, nil)
	case "BMP":
		err = bmp.Encode(&buf, img)
	case "TIFF", "TIF":
		err = tiff.Encode(&buf, img, nil)
	case "WEBP":
		err = webp.Encode(&buf, img, &webp.Options{Quality: jpegQuality})
	default:
		return nil, domain.BadRequest("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeDecode, fmt.Sprintf("encode %s image", format), err)
	}
	return buf.Bytes(), nil
}

func roundRatio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	ratio := float64(width) / float64(height)
	return math.Round(ratio*1e7) / 1e7
}

func imageMode(img image.Image) string {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return "L"
	case *image.CMYK:
		return "CMYK"
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		return "RGBA"
	default:
		return "RGB"
	}
}
