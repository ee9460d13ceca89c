package domain

import (
	"github.com/google/uuid"
)

type OcrItemType string

const (
	OcrItemTypePage      OcrItemType = "page"
	OcrItemTypeBlock     OcrItemType = "block"
	OcrItemTypeParagraph OcrItemType = "paragraph"
	OcrItemTypeLine      OcrItemType = "line"
	OcrItemTypeWord      OcrItemType = "word"
)

type OcrRelationshipType string

const (
	OcrRelationshipTypeChild OcrRelationshipType = "child"
)

type OcrRelationship struct {
	Type OcrRelationshipType `json:"type"`
	ID   uuid.UUID           `json:"id"`
}

// OcrItem is one node of the OCR tree. Coordinates are normalized to the
// page image dimensions, confidence is a percentage or nil.
type OcrItem struct {
	ID            uuid.UUID         `json:"id"`
	Type          OcrItemType       `json:"type"`
	Page          int               `json:"page"`
	Left          float64           `json:"left"`
	Top           float64           `json:"top"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	Confidence    *float64          `json:"confidence"`
	Content       *string           `json:"content"`
	Relationships []OcrRelationship `json:"relationships"`
}

type OcrResult struct {
	ID    uuid.UUID `json:"id"`
	Items []OcrItem `json:"items"`
}

// Children returns the ids referenced by the item's child relationships,
// in relationship order.
func (i OcrItem) Children() []uuid.UUID {
	var ids []uuid.UUID
	for _, rel := range i.Relationships {
		if rel.Type == OcrRelationshipTypeChild {
			ids = append(ids, rel.ID)
		}
	}
	return ids
}

// ItemsByID indexes the result's items for O(1) lookup.
func (r OcrResult) ItemsByID() map[uuid.UUID]OcrItem {
	index := make(map[uuid.UUID]OcrItem, len(r.Items))
	for _, item := range r.Items {
		index[item.ID] = item
	}
	return index
}

// ParentsByChildID indexes items by the child ids they reference, so parent
// lookups during block dedup are O(1) instead of a scan per block.
func (r OcrResult) ParentsByChildID() map[uuid.UUID][]OcrItem {
	index := make(map[uuid.UUID][]OcrItem)
	for _, item := range r.Items {
		for _, childID := range item.Children() {
			index[childID] = append(index[childID], item)
		}
	}
	return index
}
