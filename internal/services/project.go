package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/repos"
	"github.com/yungbote/mrkr-backend/internal/types"
)

type ProjectService interface {
	Create(ctx context.Context, req domain.ProjectCreate) (*types.Project, error)
	Get(ctx context.Context, id int64) (*types.Project, error)
	List(ctx context.Context) ([]domain.ProjectList, error)
}

type projectService struct {
	db  *gorm.DB
	log *logger.Logger

	projectRepo  repos.ProjectRepo
	documentRepo repos.DocumentRepo
}

func NewProjectService(db *gorm.DB, baseLog *logger.Logger, projectRepo repos.ProjectRepo, documentRepo repos.DocumentRepo) ProjectService {
	return &projectService{
		db:           db,
		log:          baseLog.With("service", "ProjectService"),
		projectRepo:  projectRepo,
		documentRepo: documentRepo,
	}
}

func (s *projectService) Create(ctx context.Context, req domain.ProjectCreate) (*types.Project, error) {
	if len(req.Name) < 3 || len(req.Name) > 50 {
		return nil, domain.BadRequest("project name must be between 3 and 50 characters")
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	raw, err := req.Config.MarshalRaw()
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeBadRequest, "invalid project config", err)
	}

	project, err := s.projectRepo.Create(ctx, nil, &types.Project{
		Name:   req.Name,
		Config: raw,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

func (s *projectService) Get(ctx context.Context, id int64) (*types.Project, error) {
	return s.projectRepo.GetByID(ctx, nil, id)
}

// List returns every project with its aggregate document status counts.
func (s *projectService) List(ctx context.Context) ([]domain.ProjectList, error) {
	projects, err := s.projectRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProjectList, 0, len(projects))
	for _, project := range projects {
		counts, err := s.documentRepo.CountByStatus(ctx, nil, project.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ProjectList{
			ID:      project.ID,
			Name:    project.Name,
			Created: project.Created,
			Updated: project.Updated,
			Status:  counts,
		})
	}
	return out, nil
}
