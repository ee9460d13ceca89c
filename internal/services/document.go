package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/providers/file"
	"github.com/yungbote/mrkr-backend/internal/repos"
	"github.com/yungbote/mrkr-backend/internal/types"
)

type DocumentService interface {
	Get(ctx context.Context, id int64) (*types.Document, error)
	List(ctx context.Context, projectID int64, filter domain.DocumentListFilter) ([]domain.DocumentList, error)
	// UpdateLabelData replaces the document's label data wholesale after
	// checking text-span offsets.
	UpdateLabelData(ctx context.Context, id int64, data domain.DocumentLabelData) error
	// Content renders the document's pages through the project's file
	// provider. A non-nil page restricts rendering to that 1-based page.
	Content(ctx context.Context, id int64, page *int) ([]domain.PageContent, error)
	Metadata(ctx context.Context, id int64) (*domain.DocumentMetadata, error)
	BatchAssignee(ctx context.Context, req domain.BatchAssignee) error
	BatchReviewer(ctx context.Context, req domain.BatchReviewer) error
	BatchStatus(ctx context.Context, req domain.BatchStatus) error
}

type documentService struct {
	db  *gorm.DB
	log *logger.Logger

	projectRepo  repos.ProjectRepo
	documentRepo repos.DocumentRepo
	userRepo     repos.UserRepo

	newFileProvider fileProviderFactory
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	documentRepo repos.DocumentRepo,
	userRepo repos.UserRepo,
) DocumentService {
	return &documentService{
		db:              db,
		log:             baseLog.With("service", "DocumentService"),
		projectRepo:     projectRepo,
		documentRepo:    documentRepo,
		userRepo:        userRepo,
		newFileProvider: file.NewProvider,
	}
}

func (s *documentService) Get(ctx context.Context, id int64) (*types.Document, error) {
	return s.documentRepo.GetByID(ctx, nil, id)
}

func (s *documentService) List(ctx context.Context, projectID int64, filter domain.DocumentListFilter) ([]domain.DocumentList, error) {
	if _, err := s.projectRepo.GetByID(ctx, nil, projectID); err != nil {
		return nil, err
	}
	documents, err := s.documentRepo.ListFiltered(ctx, nil, projectID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DocumentList, 0, len(documents))
	for _, document := range documents {
		out = append(out, domain.DocumentList{
			ID:         document.ID,
			Path:       document.Path,
			Status:     document.Status,
			AssigneeID: document.AssigneeID,
			ReviewerID: document.ReviewerID,
			Created:    document.Created,
			Updated:    document.Updated,
		})
	}
	return out, nil
}

func (s *documentService) UpdateLabelData(ctx context.Context, id int64, data domain.DocumentLabelData) error {
	if _, err := s.documentRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	if err := validateLabelData(data); err != nil {
		return err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return domain.NewError(domain.ErrorCodeBadRequest, "invalid label data", err)
	}
	return s.documentRepo.UpdateData(ctx, nil, id, raw)
}

// validateLabelData checks text-span offsets on block labels. Offsets are
// optional; when present both must be set and satisfy
// 0 <= start <= end <= len(content). Label names are not checked against the
// project config: the update replaces the data wholesale.
func validateLabelData(data domain.DocumentLabelData) error {
	for _, page := range data.Pages {
		for _, block := range page.Blocks {
			for _, label := range block.Labels {
				if label.Start == nil && label.End == nil {
					continue
				}
				if label.Start == nil || label.End == nil {
					return domain.BadRequest("label %s has only one of start/end set", label.Name)
				}
				if *label.Start < 0 || *label.End > len(block.Content) || *label.Start > *label.End {
					return domain.BadRequest("label %s has invalid offsets [%d, %d] for content of length %d",
						label.Name, *label.Start, *label.End, len(block.Content))
				}
			}
		}
	}
	return nil
}

func (s *documentService) Content(ctx context.Context, id int64, page *int) ([]domain.PageContent, error) {
	document, provider, err := s.providerFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return file.ReadAsBase64Images(ctx, provider, document.Path, page)
}

func (s *documentService) Metadata(ctx context.Context, id int64) (*domain.DocumentMetadata, error) {
	document, provider, err := s.providerFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return file.ReadMetadata(ctx, provider, document.Path)
}

func (s *documentService) providerFor(ctx context.Context, id int64) (*types.Document, file.FileProvider, error) {
	document, err := s.documentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, nil, document.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	config, err := domain.ParseProjectConfig(project.Config)
	if err != nil {
		return nil, nil, err
	}
	provider, err := s.newFileProvider(config.FileProvider, s.log)
	if err != nil {
		return nil, nil, err
	}
	return document, provider, nil
}

func (s *documentService) BatchAssignee(ctx context.Context, req domain.BatchAssignee) error {
	if err := s.checkUser(ctx, req.AssigneeID); err != nil {
		return err
	}
	return s.documentRepo.BatchUpdateAssignee(ctx, nil, req.DocumentIDs, req.AssigneeID)
}

func (s *documentService) BatchReviewer(ctx context.Context, req domain.BatchReviewer) error {
	if err := s.checkUser(ctx, req.ReviewerID); err != nil {
		return err
	}
	return s.documentRepo.BatchUpdateReviewer(ctx, nil, req.DocumentIDs, req.ReviewerID)
}

// BatchStatus rejects any status reserved for the scan worker.
func (s *documentService) BatchStatus(ctx context.Context, req domain.BatchStatus) error {
	if !req.Status.Manual() {
		return domain.BadRequest("status %s cannot be set manually", req.Status)
	}
	return s.documentRepo.BatchUpdateStatus(ctx, nil, req.DocumentIDs, req.Status)
}

func (s *documentService) checkUser(ctx context.Context, userID *int64) error {
	if userID == nil {
		return nil
	}
	_, err := s.userRepo.GetByID(ctx, nil, *userID)
	return err
}
