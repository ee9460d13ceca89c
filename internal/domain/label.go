package domain

import (
	"github.com/google/uuid"
)

type LabelTargetType string

const (
	LabelTargetDocument LabelTargetType = "document"
	LabelTargetPage     LabelTargetType = "page"
	LabelTargetBlock    LabelTargetType = "block"
)

type LabelType string

const (
	LabelTypeClassificationSingle   LabelType = "classification_single"
	LabelTypeClassificationMultiple LabelType = "classification_multiple"
	LabelTypeText                   LabelType = "text"
)

// LabelDefinition is a schema declaration in the project config describing a
// kind of label users may apply.
type LabelDefinition struct {
	Type   LabelType       `json:"type"`
	Target LabelTargetType `json:"target"`
	Name   string          `json:"name"`
	Color  string          `json:"color"`
}

// Label is one applied label. Start/End are character offsets into the
// enclosing block's content and are only present on text-span labels.
type Label struct {
	Name  string `json:"name"`
	Start *int   `json:"start,omitempty"`
	End   *int   `json:"end,omitempty"`
}

type Position struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BlockLabel holds the labelable state of one OCR block: its id mirrors the
// OcrItem id of the block, content is the plain-text reconstruction of its
// child closure.
type BlockLabel struct {
	ID       uuid.UUID `json:"id"`
	Position Position  `json:"position"`
	Content  string    `json:"content"`
	Labels   []Label   `json:"labels"`
}

type PageLabel struct {
	ID     uuid.UUID    `json:"id"`
	Page   int          `json:"page"`
	Labels []Label      `json:"labels"`
	Blocks []BlockLabel `json:"blocks"`
}

// DocumentLabelData is the user-visible, labelable structure persisted as the
// document's data column.
type DocumentLabelData struct {
	Labels []Label     `json:"labels"`
	Pages  []PageLabel `json:"pages"`
}
