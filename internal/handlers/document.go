package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/services"
)

type DocumentHandler struct {
	documentService services.DocumentService
	scanService     services.ScanService
}

func NewDocumentHandler(documentService services.DocumentService, scanService services.ScanService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		scanService:     scanService,
	}
}

func (dh *DocumentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	document, err := dh.documentService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, document)
}

// Content streams rendered pages as base64 payloads. An optional page query
// restricts rendering to one page.
func (dh *DocumentHandler) Content(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var page *int
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, domain.BadRequest("invalid page: %s", raw))
			return
		}
		page = &n
	}
	content, err := dh.documentService.Content(c.Request.Context(), id, page)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, content)
}

func (dh *DocumentHandler) Metadata(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	metadata, err := dh.documentService.Metadata(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, metadata)
}

func (dh *DocumentHandler) UpdateData(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var data domain.DocumentLabelData
	if err := c.ShouldBindJSON(&data); err != nil {
		RespondBadRequest(c, err)
		return
	}
	if err := dh.documentService.UpdateLabelData(c.Request.Context(), id, data); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}

// Scan verifies the document exists, then enqueues a single-document scan.
func (dh *DocumentHandler) Scan(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	if _, err := dh.documentService.Get(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	force := c.Query("force") == "true"
	dh.scanService.ScheduleDocumentScan(id, force)
	RespondOK(c, gin.H{"message": "Document scan scheduled"})
}

func (dh *DocumentHandler) BatchAssignee(c *gin.Context) {
	var req domain.BatchAssignee
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	if err := dh.documentService.BatchAssignee(c.Request.Context(), req); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}

func (dh *DocumentHandler) BatchReviewer(c *gin.Context) {
	var req domain.BatchReviewer
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	if err := dh.documentService.BatchReviewer(c.Request.Context(), req); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}

func (dh *DocumentHandler) BatchStatus(c *gin.Context) {
	var req domain.BatchStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	if err := dh.documentService.BatchStatus(c.Request.Context(), req); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}
