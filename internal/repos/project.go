package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/types"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Project, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(project).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "create project", err)
	}
	return project, nil
}

func (r *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var project types.Project
	if err := transaction.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("project %d not found", id)
		}
		return nil, domain.NewError(domain.ErrorCodeStorage, "get project", err)
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var projects []*types.Project
	if err := transaction.WithContext(ctx).Order("id asc").Find(&projects).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "list projects", err)
	}
	return projects, nil
}
