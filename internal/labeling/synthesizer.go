// Package labeling turns a canonical OCR result into the initial labelable
// page/block scaffolding. The walk is deterministic: the same OCR result
// always produces byte-identical label data.
package labeling

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mrkr-backend/internal/domain"
)

// Synthesize emits the initial DocumentLabelData for an OCR result. All label
// lists start empty; blocks carry their reconstructed text content and their
// verbatim bounding box.
func Synthesize(result *domain.OcrResult) *domain.DocumentLabelData {
	byID := result.ItemsByID()
	parents := result.ParentsByChildID()

	data := &domain.DocumentLabelData{
		Labels: []domain.Label{},
		Pages:  []domain.PageLabel{},
	}

	pageIndex := make(map[int]int)
	for _, item := range result.Items {
		if item.Type != domain.OcrItemTypePage {
			continue
		}
		if _, exists := pageIndex[item.Page]; exists {
			continue
		}
		pageIndex[item.Page] = len(data.Pages)
		data.Pages = append(data.Pages, domain.PageLabel{
			ID:     item.ID,
			Page:   item.Page,
			Labels: []domain.Label{},
			Blocks: []domain.BlockLabel{},
		})
	}
	sort.SliceStable(data.Pages, func(i, j int) bool {
		return data.Pages[i].Page < data.Pages[j].Page
	})
	for i, page := range data.Pages {
		pageIndex[page.Page] = i
	}

	seen := make(map[uuid.UUID]bool)
	for _, item := range result.Items {
		if item.Type != domain.OcrItemTypeBlock {
			continue
		}
		if seen[item.ID] {
			continue
		}
		// Nested layout blocks collapse into their outermost block: a
		// block whose parent is itself a block is skipped.
		if hasBlockParent(item.ID, parents) {
			continue
		}
		seen[item.ID] = true

		idx, ok := pageIndex[item.Page]
		if !ok {
			continue
		}
		data.Pages[idx].Blocks = append(data.Pages[idx].Blocks, domain.BlockLabel{
			ID: item.ID,
			Position: domain.Position{
				Left:   item.Left,
				Top:    item.Top,
				Width:  item.Width,
				Height: item.Height,
			},
			Content: itemContent(item, byID),
			Labels:  []domain.Label{},
		})
	}

	return data
}

func hasBlockParent(id uuid.UUID, parents map[uuid.UUID][]domain.OcrItem) bool {
	for _, parent := range parents[id] {
		if parent.Type == domain.OcrItemTypeBlock {
			return true
		}
	}
	return false
}

// itemContent reconstructs the plain text of an item's child closure.
// Paragraph boundaries become blank lines, line boundaries become newlines,
// words are joined by single spaces.
func itemContent(root domain.OcrItem, byID map[uuid.UUID]domain.OcrItem) string {
	buf := walkContent(root, byID, "")
	return strings.TrimRight(buf, " \t\n")
}

func walkContent(item domain.OcrItem, byID map[uuid.UUID]domain.OcrItem, buf string) string {
	if item.Content != nil && *item.Content != "" {
		buf += *item.Content + " "
	}
	for _, childID := range item.Children() {
		child, ok := byID[childID]
		if !ok {
			continue
		}
		switch child.Type {
		case domain.OcrItemTypeParagraph:
			if len(buf) > 0 && !strings.HasSuffix(buf, "\n") {
				buf = strings.TrimRight(buf, " ") + "\n\n"
			}
		case domain.OcrItemTypeLine:
			if len(buf) > 0 && !strings.HasSuffix(buf, "\n") {
				buf = strings.TrimRight(buf, " ") + "\n"
			}
		}
		buf = walkContent(child, byID, buf)
	}
	return buf
}
