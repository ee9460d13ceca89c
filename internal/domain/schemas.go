package domain

import (
	"time"
)

type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusOpen       DocumentStatus = "open"
	DocumentStatusReview     DocumentStatus = "review"
	DocumentStatusDone       DocumentStatus = "done"
)

// ManualStatuses are the statuses a client may set through the API.
// Processing is reserved for the scan worker.
func (s DocumentStatus) Manual() bool {
	switch s {
	case DocumentStatusOpen, DocumentStatusReview, DocumentStatusDone:
		return true
	}
	return false
}

type OrderBy string

const (
	OrderByID      OrderBy = "id"
	OrderByCreated OrderBy = "created"
	OrderByUpdated OrderBy = "updated"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// DocumentListFilter narrows and orders a project's document listing.
type DocumentListFilter struct {
	OrderBy OrderBy
	Order   Order
	Limit   int
	Offset  int
	Filter  string
}

func (f DocumentListFilter) Normalized() DocumentListFilter {
	out := f
	switch out.OrderBy {
	case OrderByID, OrderByCreated, OrderByUpdated:
	default:
		out.OrderBy = OrderByID
	}
	switch out.Order {
	case OrderAsc, OrderDesc:
	default:
		out.Order = OrderAsc
	}
	if out.Limit <= 0 {
		out.Limit = 100
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

type UserCreate struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserList struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Disabled bool   `json:"disabled"`
}

type ProjectCreate struct {
	Name   string        `json:"name" binding:"required"`
	Config ProjectConfig `json:"config" binding:"required"`
}

// ProjectStatusCounts is the aggregate document status of a project.
type ProjectStatusCounts struct {
	Processing int64 `json:"processing"`
	Open       int64 `json:"open"`
	Review     int64 `json:"review"`
	Done       int64 `json:"done"`
}

type ProjectList struct {
	ID      int64               `json:"id"`
	Name    string              `json:"name"`
	Created time.Time           `json:"created"`
	Updated time.Time           `json:"updated"`
	Status  ProjectStatusCounts `json:"status"`
}

type DocumentList struct {
	ID         int64          `json:"id"`
	Path       string         `json:"path"`
	Status     DocumentStatus `json:"status"`
	AssigneeID *int64         `json:"assignee_id"`
	ReviewerID *int64         `json:"reviewer_id"`
	Created    time.Time      `json:"created"`
	Updated    time.Time      `json:"updated"`
}

type BatchAssignee struct {
	DocumentIDs []int64 `json:"document_ids" binding:"required"`
	AssigneeID  *int64  `json:"assignee_id"`
}

type BatchReviewer struct {
	DocumentIDs []int64 `json:"document_ids" binding:"required"`
	ReviewerID  *int64  `json:"reviewer_id"`
}

type BatchStatus struct {
	DocumentIDs []int64        `json:"document_ids" binding:"required"`
	Status      DocumentStatus `json:"status" binding:"required"`
}

// PageContent is one rendered document page, serialized to the configured
// image format and base64-encoded.
type PageContent struct {
	Content     string  `json:"content"`
	Page        int     `json:"page"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Format      string  `json:"format"`
	Mode        string  `json:"mode"`
}

// PageMetadata mirrors PageContent without the payload.
type PageMetadata struct {
	Page        int     `json:"page"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Format      string  `json:"format"`
	Mode        string  `json:"mode"`
}

type DocumentMetadata struct {
	Path  string         `json:"path"`
	Pages []PageMetadata `json:"pages"`
}
