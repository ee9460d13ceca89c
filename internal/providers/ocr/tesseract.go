package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

// tesseractRow is one row of the engine's TSV output: parallel arrays of
// level/page/block/paragraph/line/word indices plus geometry and text.
type tesseractRow struct {
	Level    int
	PageNum  int
	BlockNum int
	ParNum   int
	LineNum  int
	WordNum  int
	Left     int
	Top      int
	Width    int
	Height   int
	Conf     float64
	Text     string
}

var tesseractLevelMap = map[int]domain.OcrItemType{
	1: domain.OcrItemTypePage,
	2: domain.OcrItemTypeBlock,
	3: domain.OcrItemTypeParagraph,
	4: domain.OcrItemTypeLine,
	5: domain.OcrItemTypeWord,
}

// TesseractProvider shells out to the tesseract binary in full-layout page
// segmentation mode and converts the flat TSV word stream into the item tree.
type TesseractProvider struct {
	log      *logger.Logger
	language string

	// run executes the engine for one page image; swapped in tests.
	run func(ctx context.Context, img image.Image, language string) (string, error)
}

func NewTesseractProvider(cfg domain.OcrProviderConfig, log *logger.Logger) (*TesseractProvider, error) {
	language, err := utils.ResolveString(cfg.Language)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeConfigResolution, "resolve ocr language", err)
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractProvider{
		log:      log.With("provider", "TesseractOcrProvider"),
		language: language,
		run:      runTesseract,
	}, nil
}

func runTesseract(ctx context.Context, img image.Image, language string) (string, error) {
	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return "", domain.NewError(domain.ErrorCodeDecode, "encode page image", err)
	}

	cmd := exec.CommandContext(ctx, "tesseract", "stdin", "stdout", "--psm", "1", "-l", language, "tsv")
	cmd.Stdin = &input
	var output, stderr bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", domain.NewError(domain.ErrorCodeOcr,
			fmt.Sprintf("tesseract failed: %s", strings.TrimSpace(stderr.String())), err)
	}
	return output.String(), nil
}

// Ocr runs the engine over the pages concurrently, one process per page,
// bounded by GOMAXPROCS. Items are assembled in page order regardless of
// completion order.
func (p *TesseractProvider) Ocr(ctx context.Context, images []image.Image) (*domain.OcrResult, error) {
	pages := make([][]domain.OcrItem, len(images))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, img := range images {
		group.Go(func() error {
			page := i + 1
			p.log.Debug("Performing OCR", "page", page)

			tsv, err := p.run(groupCtx, img, p.language)
			if err != nil {
				return err
			}
			rows, err := parseTesseractTSV(tsv)
			if err != nil {
				return err
			}
			pageItems, err := convertTesseractRows(rows, img.Bounds().Dx(), img.Bounds().Dy(), page)
			if err != nil {
				return err
			}
			pages[i] = pageItems
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var items []domain.OcrItem
	for _, pageItems := range pages {
		items = append(items, pageItems...)
	}
	return &domain.OcrResult{ID: uuid.New(), Items: items}, nil
}

func parseTesseractTSV(tsv string) ([]tesseractRow, error) {
	lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
	if len(lines) < 1 {
		return nil, domain.NewError(domain.ErrorCodeOcr, "empty tesseract output", nil)
	}

	var rows []tesseractRow
	for _, line := range lines[1:] { // skip header
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 11 {
			return nil, domain.NewError(domain.ErrorCodeOcr,
				fmt.Sprintf("malformed tesseract row: %q", line), nil)
		}
		numbers := make([]int, 10)
		for i := 0; i < 10; i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, domain.NewError(domain.ErrorCodeOcr,
					fmt.Sprintf("malformed tesseract row: %q", line), err)
			}
			numbers[i] = n
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return nil, domain.NewError(domain.ErrorCodeOcr,
				fmt.Sprintf("malformed tesseract row: %q", line), err)
		}
		text := ""
		if len(fields) > 11 {
			text = fields[11]
		}
		rows = append(rows, tesseractRow{
			Level:    numbers[0],
			PageNum:  numbers[1],
			BlockNum: numbers[2],
			ParNum:   numbers[3],
			LineNum:  numbers[4],
			WordNum:  numbers[5],
			Left:     numbers[6],
			Top:      numbers[7],
			Width:    numbers[8],
			Height:   numbers[9],
			Conf:     conf,
			Text:     text,
		})
	}
	return rows, nil
}

func (r tesseractRow) key() string {
	return fmt.Sprintf("%d_%d_%d_%d_%d", r.PageNum, r.BlockNum, r.ParNum, r.LineNum, r.WordNum)
}

// parentKey derives the key of the row's immediate parent by zeroing the
// trailing fields of the index tuple. Pages have no parent.
func (r tesseractRow) parentKey() (string, bool) {
	switch tesseractLevelMap[r.Level] {
	case domain.OcrItemTypeBlock:
		return fmt.Sprintf("%d_0_0_0_0", r.PageNum), true
	case domain.OcrItemTypeParagraph:
		return fmt.Sprintf("%d_%d_0_0_0", r.PageNum, r.BlockNum), true
	case domain.OcrItemTypeLine:
		return fmt.Sprintf("%d_%d_%d_0_0", r.PageNum, r.BlockNum, r.ParNum), true
	case domain.OcrItemTypeWord:
		return fmt.Sprintf("%d_%d_%d_%d_0", r.PageNum, r.BlockNum, r.ParNum, r.LineNum), true
	default:
		return "", false
	}
}

// convertTesseractRows assigns an opaque id per row and links each row to its
// immediate parent with a child relationship on the parent.
func convertTesseractRows(rows []tesseractRow, width, height, page int) ([]domain.OcrItem, error) {
	ids := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		key := row.key()
		if _, exists := ids[key]; exists {
			return nil, domain.NewError(domain.ErrorCodeOcr,
				fmt.Sprintf("duplicate item key: %s", key), nil)
		}
		ids[key] = uuid.New()
	}

	items := make([]domain.OcrItem, 0, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		itemType, ok := tesseractLevelMap[row.Level]
		if !ok {
			itemType = domain.OcrItemTypeBlock
		}

		var confidence *float64
		if row.Conf >= 0 {
			conf := row.Conf
			confidence = &conf
		}
		var content *string
		if row.Text != "" {
			text := row.Text
			content = &text
		}

		id := ids[row.key()]
		item := domain.OcrItem{
			ID:         id,
			Type:       itemType,
			Page:       page,
			Left:       roundCoord(float64(row.Left) / float64(width)),
			Top:        roundCoord(float64(row.Top) / float64(height)),
			Width:      roundCoord(float64(row.Width) / float64(width)),
			Height:     roundCoord(float64(row.Height) / float64(height)),
			Confidence: confidence,
			Content:    content,
		}
		index[id] = len(items)
		items = append(items, item)

		if parentKey, ok := row.parentKey(); ok {
			parentID, exists := ids[parentKey]
			if !exists {
				return nil, domain.NewError(domain.ErrorCodeOcr,
					fmt.Sprintf("missing parent item: %s", parentKey), nil)
			}
			parentIdx, emitted := index[parentID]
			if !emitted {
				return nil, domain.NewError(domain.ErrorCodeOcr,
					fmt.Sprintf("parent item %s appears after its child", parentKey), nil)
			}
			items[parentIdx].Relationships = append(items[parentIdx].Relationships, domain.OcrRelationship{
				Type: domain.OcrRelationshipTypeChild,
				ID:   id,
			})
		}
	}
	return items, nil
}

func roundCoord(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
