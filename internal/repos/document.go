package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/types"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, document *types.Document) (*types.Document, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Document, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID int64) ([]*types.Document, error)
	ListFiltered(ctx context.Context, tx *gorm.DB, projectID int64, filter domain.DocumentListFilter) ([]*types.Document, error)
	UpdateDataAndStatus(ctx context.Context, tx *gorm.DB, id int64, data []byte, status domain.DocumentStatus) error
	UpdateData(ctx context.Context, tx *gorm.DB, id int64, data []byte) error
	BatchUpdateAssignee(ctx context.Context, tx *gorm.DB, ids []int64, assigneeID *int64) error
	BatchUpdateReviewer(ctx context.Context, tx *gorm.DB, ids []int64, reviewerID *int64) error
	BatchUpdateStatus(ctx context.Context, tx *gorm.DB, ids []int64, status domain.DocumentStatus) error
	CountByStatus(ctx context.Context, tx *gorm.DB, projectID int64) (domain.ProjectStatusCounts, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, document *types.Document) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(document).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "create document", err)
	}
	return document, nil
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var document types.Document
	if err := transaction.WithContext(ctx).First(&document, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("document %d not found", id)
		}
		return nil, domain.NewError(domain.ErrorCodeStorage, "get document", err)
	}
	return &document, nil
}

func (r *documentRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID int64) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var documents []*types.Document
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id asc").
		Find(&documents).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "list project documents", err)
	}
	return documents, nil
}

func (r *documentRepo) ListFiltered(ctx context.Context, tx *gorm.DB, projectID int64, filter domain.DocumentListFilter) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	filter = filter.Normalized()

	query := transaction.WithContext(ctx).
		Where("project_id = ?", projectID)
	if filter.Filter != "" {
		pattern := "%" + filter.Filter + "%"
		query = query.Where(
			"LOWER(path) LIKE LOWER(?) OR LOWER(CAST(status AS TEXT)) LIKE LOWER(?) OR CAST(id AS TEXT) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	query = query.
		Order(fmt.Sprintf("%s %s", filter.OrderBy, filter.Order)).
		Limit(filter.Limit).
		Offset(filter.Offset)

	var documents []*types.Document
	if err := query.Find(&documents).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "list filtered documents", err)
	}
	return documents, nil
}

func (r *documentRepo) UpdateDataAndStatus(ctx context.Context, tx *gorm.DB, id int64, data []byte, status domain.DocumentStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id = ?", id).
		Updates(map[string]any{"data": data, "status": status})
	if result.Error != nil {
		return domain.NewError(domain.ErrorCodeStorage, "update document data and status", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("document %d not found", id)
	}
	return nil
}

func (r *documentRepo) UpdateData(ctx context.Context, tx *gorm.DB, id int64, data []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id = ?", id).
		Update("data", data)
	if result.Error != nil {
		return domain.NewError(domain.ErrorCodeStorage, "update document data", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("document %d not found", id)
	}
	return nil
}

func (r *documentRepo) BatchUpdateAssignee(ctx context.Context, tx *gorm.DB, ids []int64, assigneeID *int64) error {
	return r.batchUpdate(ctx, tx, ids, "assignee_id", assigneeID)
}

func (r *documentRepo) BatchUpdateReviewer(ctx context.Context, tx *gorm.DB, ids []int64, reviewerID *int64) error {
	return r.batchUpdate(ctx, tx, ids, "reviewer_id", reviewerID)
}

func (r *documentRepo) BatchUpdateStatus(ctx context.Context, tx *gorm.DB, ids []int64, status domain.DocumentStatus) error {
	return r.batchUpdate(ctx, tx, ids, "status", status)
}

// batchUpdate commits one column change for a set of documents in a single
// transaction.
func (r *documentRepo) batchUpdate(ctx context.Context, tx *gorm.DB, ids []int64, column string, value any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	err := transaction.WithContext(ctx).Transaction(func(innerTx *gorm.DB) error {
		result := innerTx.
			Model(&types.Document{}).
			Where("id IN ?", ids).
			Update(column, value)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return domain.NotFound("one or more documents not found")
		}
		return nil
	})
	if err != nil {
		if domain.IsCode(err, domain.ErrorCodeNotFound) {
			return err
		}
		return domain.NewError(domain.ErrorCodeStorage, "batch update documents", err)
	}
	return nil
}

func (r *documentRepo) CountByStatus(ctx context.Context, tx *gorm.DB, projectID int64) (domain.ProjectStatusCounts, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []struct {
		Status domain.DocumentStatus
		Count  int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Select("status, COUNT(*) as count").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return domain.ProjectStatusCounts{}, domain.NewError(domain.ErrorCodeStorage, "count documents by status", err)
	}
	var counts domain.ProjectStatusCounts
	for _, row := range rows {
		switch row.Status {
		case domain.DocumentStatusProcessing:
			counts.Processing = row.Count
		case domain.DocumentStatusOpen:
			counts.Open = row.Count
		case domain.DocumentStatusReview:
			counts.Review = row.Count
		case domain.DocumentStatusDone:
			counts.Done = row.Count
		}
	}
	return counts, nil
}
