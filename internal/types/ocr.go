package types

import (
	"time"

	"gorm.io/datatypes"
)

// Ocr rows are append-only; the current artifact for a document is the most
// recent by timestamp.
type Ocr struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentID int64          `gorm:"not null;index;column:document_id" json:"document_id"`
	Timestamp  time.Time      `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
	Result     datatypes.JSON `gorm:"column:result" json:"result"`

	Document *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"-"`
}

func (Ocr) TableName() string { return "ocr" }
