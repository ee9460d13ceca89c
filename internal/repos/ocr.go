package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/types"
)

type OcrRepo interface {
	Create(ctx context.Context, tx *gorm.DB, artifact *types.Ocr) (*types.Ocr, error)
	GetLatestByDocumentID(ctx context.Context, tx *gorm.DB, documentID int64) (*types.Ocr, error)
}

type ocrRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOcrRepo(db *gorm.DB, baseLog *logger.Logger) OcrRepo {
	return &ocrRepo{db: db, log: baseLog.With("repo", "OcrRepo")}
}

// Create appends an artifact; existing rows are never mutated.
func (r *ocrRepo) Create(ctx context.Context, tx *gorm.DB, artifact *types.Ocr) (*types.Ocr, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(artifact).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "create ocr artifact", err)
	}
	return artifact, nil
}

func (r *ocrRepo) GetLatestByDocumentID(ctx context.Context, tx *gorm.DB, documentID int64) (*types.Ocr, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var artifact types.Ocr
	if err := transaction.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("timestamp desc").
		First(&artifact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("no ocr artifact for document %d", documentID)
		}
		return nil, domain.NewError(domain.ErrorCodeStorage, "get latest ocr artifact", err)
	}
	return &artifact, nil
}
