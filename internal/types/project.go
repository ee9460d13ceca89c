package types

import (
	"time"

	"gorm.io/datatypes"
)

type Project struct {
	ID      int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Created time.Time      `gorm:"column:created;autoCreateTime" json:"created"`
	Updated time.Time      `gorm:"column:updated;autoUpdateTime" json:"updated"`
	Config  datatypes.JSON `gorm:"column:config" json:"config"`

	Documents []Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`
}

func (Project) TableName() string { return "project" }
