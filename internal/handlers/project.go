package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/services"
)

type ProjectHandler struct {
	projectService  services.ProjectService
	documentService services.DocumentService
	scanService     services.ScanService
}

func NewProjectHandler(
	projectService services.ProjectService,
	documentService services.DocumentService,
	scanService services.ScanService,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		documentService: documentService,
		scanService:     scanService,
	}
}

func (ph *ProjectHandler) Create(c *gin.Context) {
	var req domain.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	project, err := ph.projectService.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Project created", "project_id": project.ID})
}

func (ph *ProjectHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	project, err := ph.projectService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, project)
}

func (ph *ProjectHandler) List(c *gin.Context) {
	projects, err := ph.projectService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, projects)
}

// Scan verifies the project exists, then enqueues the scan and returns
// immediately.
func (ph *ProjectHandler) Scan(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	if _, err := ph.projectService.Get(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	force := c.Query("force") == "true"
	ph.scanService.ScheduleProjectScan(id, force)
	RespondOK(c, gin.H{"message": "Project scan scheduled"})
}

// ListDocuments lists the project's documents with optional ordering,
// paging and substring filtering.
func (ph *ProjectHandler) ListDocuments(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := domain.DocumentListFilter{
		OrderBy: domain.OrderBy(c.DefaultQuery("order_by", string(domain.OrderByID))),
		Order:   domain.Order(c.DefaultQuery("order", string(domain.OrderAsc))),
		Limit:   limit,
		Offset:  offset,
		Filter:  c.Query("filter"),
	}

	documents, err := ph.documentService.List(c.Request.Context(), id, filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, documents)
}
