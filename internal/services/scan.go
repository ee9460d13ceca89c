package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/labeling"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/providers/file"
	"github.com/yungbote/mrkr-backend/internal/providers/ocr"
	"github.com/yungbote/mrkr-backend/internal/repos"
	"github.com/yungbote/mrkr-backend/internal/types"
)

// scannableExtensions are the file extensions the filesystem sync turns into
// documents.
var scannableExtensions = map[string]bool{
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"bmp":  true,
	"gif":  true,
	"tif":  true,
	"tiff": true,
}

type fileProviderFactory func(cfg domain.ProjectFileProvider, log *logger.Logger) (file.FileProvider, error)
type ocrProviderFactory func(cfg domain.ProjectOcrProvider, log *logger.Logger) (ocr.OcrProvider, error)

type ScanService interface {
	// ScheduleProjectScan enqueues a project scan and returns immediately.
	ScheduleProjectScan(projectID int64, force bool)
	// ScheduleDocumentScan enqueues a single-document scan and returns
	// immediately.
	ScheduleDocumentScan(documentID int64, force bool)
	// ScanProject runs the scan synchronously; it is the task body executed
	// by the worker pool.
	ScanProject(ctx context.Context, projectID int64, force bool)
	// ScanDocument runs a single-document scan synchronously.
	ScanDocument(ctx context.Context, documentID int64, force bool)
}

type scanService struct {
	db   *gorm.DB
	log  *logger.Logger
	pool *WorkerPool

	projectRepo  repos.ProjectRepo
	documentRepo repos.DocumentRepo
	ocrRepo      repos.OcrRepo

	newFileProvider fileProviderFactory
	newOcrProvider  ocrProviderFactory
}

func NewScanService(
	db *gorm.DB,
	baseLog *logger.Logger,
	pool *WorkerPool,
	projectRepo repos.ProjectRepo,
	documentRepo repos.DocumentRepo,
	ocrRepo repos.OcrRepo,
) ScanService {
	return &scanService{
		db:              db,
		log:             baseLog.With("service", "ScanService"),
		pool:            pool,
		projectRepo:     projectRepo,
		documentRepo:    documentRepo,
		ocrRepo:         ocrRepo,
		newFileProvider: file.NewProvider,
		newOcrProvider:  ocr.NewProvider,
	}
}

func (s *scanService) ScheduleProjectScan(projectID int64, force bool) {
	s.pool.Submit(fmt.Sprintf("scan_project(%d, force=%t)", projectID, force), func(ctx context.Context) {
		s.ScanProject(ctx, projectID, force)
	})
}

func (s *scanService) ScheduleDocumentScan(documentID int64, force bool) {
	s.pool.Submit(fmt.Sprintf("scan_document(%d, force=%t)", documentID, force), func(ctx context.Context) {
		s.ScanDocument(ctx, documentID, force)
	})
}

// ScanProject syncs the provider file tree into documents, then submits a
// scan for every document of the project. Failures never propagate out of
// the task.
func (s *scanService) ScanProject(ctx context.Context, projectID int64, force bool) {
	log := s.log.With("project_id", projectID)
	log.Debug("Scanning project...")

	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		log.Error("Could not load project for scan", "error", err)
		return
	}
	config, err := domain.ParseProjectConfig(project.Config)
	if err != nil {
		log.Error("Could not parse project config", "error", err)
		return
	}
	provider, err := s.newFileProvider(config.FileProvider, s.log)
	if err != nil {
		log.Error("Could not build file provider", "error", err)
		return
	}

	if err := s.syncDocuments(ctx, log, project, provider); err != nil {
		log.Error("Filesystem sync failed", "error", err)
		return
	}

	documents, err := s.documentRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		log.Error("Could not list project documents", "error", err)
		return
	}
	for _, document := range documents {
		s.ScheduleDocumentScan(document.ID, force)
	}

	log.Debug("Project scan scheduled", "documents", len(documents))
}

// syncDocuments lists the provider root and creates a processing document
// for every new file with a scannable extension.
func (s *scanService) syncDocuments(ctx context.Context, log *logger.Logger, project *types.Project, provider file.FileProvider) error {
	existing, err := s.documentRepo.GetByProjectID(ctx, nil, project.ID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, document := range existing {
		known[document.Path] = true
	}

	iterator, err := provider.List(ctx, "")
	if err != nil {
		return err
	}
	for iterator.Next(ctx) {
		path := iterator.Name()
		if known[path] {
			log.Debug("Document already exists", "path", path)
			continue
		}
		if !scannableExtensions[extension(path)] {
			log.Debug("Skipping unsupported file", "path", path)
			continue
		}
		log.Debug("Creating document", "path", path)
		if _, err := s.documentRepo.Create(ctx, nil, &types.Document{
			ProjectID: project.ID,
			Path:      path,
			Status:    domain.DocumentStatusProcessing,
		}); err != nil {
			return err
		}
	}
	return iterator.Err()
}

// ScanDocument OCRs the document, synthesizes label scaffolding and persists
// both atomically. A failing phase abandons the scan without touching prior
// data; re-running with the same arguments is safe.
func (s *scanService) ScanDocument(ctx context.Context, documentID int64, force bool) {
	log := s.log.With("document_id", documentID)
	log.Debug("Scanning document...")

	document, err := s.documentRepo.GetByID(ctx, nil, documentID)
	if err != nil {
		log.Error("Could not load document for scan", "error", err)
		return
	}
	if document.Data != nil && !force {
		log.Debug("Document already scanned, skipping")
		return
	}

	project, err := s.projectRepo.GetByID(ctx, nil, document.ProjectID)
	if err != nil {
		log.Error("Could not load project for scan", "error", err)
		return
	}
	config, err := domain.ParseProjectConfig(project.Config)
	if err != nil {
		log.Error("Could not parse project config", "error", err)
		return
	}
	fileProvider, err := s.newFileProvider(config.FileProvider, s.log)
	if err != nil {
		log.Error("Could not build file provider", "error", err)
		return
	}
	ocrProvider, err := s.newOcrProvider(config.OcrProvider, s.log)
	if err != nil {
		log.Error("Could not build ocr provider", "error", err)
		return
	}

	exists, err := fileProvider.IsFile(ctx, document.Path)
	if err != nil {
		log.Error("Could not check document file", "path", document.Path, "error", err)
		return
	}
	if !exists {
		log.Warn("Document file no longer exists, skipping", "path", document.Path)
		return
	}

	images, err := file.ReadAsImages(ctx, fileProvider, document.Path, nil)
	if err != nil {
		log.Error("Could not read document pages", "path", document.Path, "error", err)
		return
	}

	result, err := ocrProvider.Ocr(ctx, images)
	if err != nil {
		log.Error("OCR failed", "path", document.Path, "error", err)
		return
	}

	data := labeling.Synthesize(result)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		log.Error("Could not marshal ocr result", "error", err)
		return
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Error("Could not marshal label data", "error", err)
		return
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ocrRepo.Create(ctx, tx, &types.Ocr{
			DocumentID: document.ID,
			Result:     resultJSON,
		}); err != nil {
			return err
		}
		return s.documentRepo.UpdateDataAndStatus(ctx, tx, document.ID, dataJSON, domain.DocumentStatusOpen)
	})
	if err != nil {
		log.Error("Could not persist scan result", "error", err)
		return
	}

	log.Debug("Document scan successful", "pages", len(data.Pages))
}

func extension(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[idx+1:])
}
