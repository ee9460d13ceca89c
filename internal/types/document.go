package types

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/mrkr-backend/internal/domain"
)

// Document rows carry the label data as a JSON column. Data is null until the
// first successful scan.
type Document struct {
	ID         int64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID  int64                 `gorm:"not null;index;uniqueIndex:idx_document_project_path;column:project_id" json:"project_id"`
	Path       string                `gorm:"not null;uniqueIndex:idx_document_project_path;column:path" json:"path"`
	Status     domain.DocumentStatus `gorm:"not null;default:'processing';column:status" json:"status"`
	Data       datatypes.JSON        `gorm:"column:data" json:"data"`
	AssigneeID *int64                `gorm:"column:assignee_id" json:"assignee_id"`
	ReviewerID *int64                `gorm:"column:reviewer_id" json:"reviewer_id"`
	Created    time.Time             `gorm:"column:created;autoCreateTime" json:"created"`
	Updated    time.Time             `gorm:"column:updated;autoUpdateTime" json:"updated"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID" json:"-"`
}

func (Document) TableName() string { return "document" }
