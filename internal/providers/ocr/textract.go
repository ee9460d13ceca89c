package ocr

import (
	"context"
	"image"

	"github.com/aws/aws-sdk-go-v2/service/textract"
	textracttypes "github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/google/uuid"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	awsprovider "github.com/yungbote/mrkr-backend/internal/providers/aws"
	"github.com/yungbote/mrkr-backend/internal/providers/file"
)

type analyzeDocumentAPI interface {
	AnalyzeDocument(ctx context.Context, params *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

// TextractProvider analyzes page images with the cloud layout engine. Blocks
// arrive with ids and CHILD relationships already in place; layout types
// outside page/line/word collapse to block.
type TextractProvider struct {
	log     *logger.Logger
	session *awsprovider.Session
	client  analyzeDocumentAPI
}

func NewTextractProvider(cfg domain.OcrProviderConfig, log *logger.Logger) (*TextractProvider, error) {
	session, err := awsprovider.NewSession(cfg.AwsConfig, log)
	if err != nil {
		return nil, err
	}
	return &TextractProvider{
		log:     log.With("provider", "TextractOcrProvider"),
		session: session,
	}, nil
}

func (p *TextractProvider) api(ctx context.Context) (analyzeDocumentAPI, error) {
	if p.client != nil {
		return p.client, nil
	}
	client, err := p.session.TextractClient(ctx)
	if err != nil {
		return nil, err
	}
	p.client = client
	return p.client, nil
}

func (p *TextractProvider) Ocr(ctx context.Context, images []image.Image) (*domain.OcrResult, error) {
	client, err := p.api(ctx)
	if err != nil {
		return nil, err
	}

	var items []domain.OcrItem
	for i, img := range images {
		page := i + 1
		p.log.Debug("Analyzing page layout", "page", page)

		encoded, err := file.EncodeImage(img, "PNG")
		if err != nil {
			return nil, err
		}
		output, err := client.AnalyzeDocument(ctx, &textract.AnalyzeDocumentInput{
			Document:     &textracttypes.Document{Bytes: encoded},
			FeatureTypes: []textracttypes.FeatureType{textracttypes.FeatureTypeLayout},
		})
		if err != nil {
			return nil, domain.NewError(domain.ErrorCodeOcr, "analyze document", err)
		}
		items = append(items, convertTextractBlocks(output.Blocks, page)...)
	}
	return &domain.OcrResult{ID: uuid.New(), Items: items}, nil
}

func mapTextractBlockType(blockType textracttypes.BlockType) domain.OcrItemType {
	switch blockType {
	case textracttypes.BlockTypePage:
		return domain.OcrItemTypePage
	case textracttypes.BlockTypeLine:
		return domain.OcrItemTypeLine
	case textracttypes.BlockTypeWord:
		return domain.OcrItemTypeWord
	default:
		return domain.OcrItemTypeBlock
	}
}

// itemID parses the engine's block id; ids that are not well-formed UUIDs map
// deterministically into the UUID space.
func itemID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw))
}

func convertTextractBlocks(blocks []textracttypes.Block, page int) []domain.OcrItem {
	items := make([]domain.OcrItem, 0, len(blocks))
	for _, block := range blocks {
		if block.Id == nil {
			continue
		}

		var relationships []domain.OcrRelationship
		for _, rel := range block.Relationships {
			if rel.Type != textracttypes.RelationshipTypeChild {
				continue
			}
			for _, childID := range rel.Ids {
				relationships = append(relationships, domain.OcrRelationship{
					Type: domain.OcrRelationshipTypeChild,
					ID:   itemID(childID),
				})
			}
		}

		var left, top, width, height float64
		if block.Geometry != nil && block.Geometry.BoundingBox != nil {
			box := block.Geometry.BoundingBox
			left = float64(box.Left)
			top = float64(box.Top)
			width = float64(box.Width)
			height = float64(box.Height)
		}

		var confidence *float64
		if block.Confidence != nil {
			conf := float64(*block.Confidence)
			confidence = &conf
		}
		var content *string
		if block.Text != nil && *block.Text != "" {
			text := *block.Text
			content = &text
		}

		items = append(items, domain.OcrItem{
			ID:            itemID(*block.Id),
			Type:          mapTextractBlockType(block.BlockType),
			Page:          page,
			Left:          left,
			Top:           top,
			Width:         width,
			Height:        height,
			Confidence:    confidence,
			Content:       content,
			Relationships: relationships,
		})
	}
	return items
}
