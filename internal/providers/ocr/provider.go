package ocr

import (
	"context"
	"image"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
)

// OcrProvider turns page images into a canonical OCR result: a tree of items
// tagged page/block/paragraph/line/word with geometry normalized by the
// source image dimensions.
type OcrProvider interface {
	Ocr(ctx context.Context, images []image.Image) (*domain.OcrResult, error)
}

// NewProvider builds the OCR provider variant named by the project config.
func NewProvider(cfg domain.ProjectOcrProvider, log *logger.Logger) (OcrProvider, error) {
	switch cfg.Type {
	case domain.OcrProviderTypeTesseract:
		return NewTesseractProvider(cfg.Config, log)
	case domain.OcrProviderTypeTextract:
		return NewTextractProvider(cfg.Config, log)
	default:
		return nil, domain.BadRequest("unsupported ocr provider type: %s", cfg.Type)
	}
}
