package domain

import "testing"

func validConfig() ProjectConfig {
	return ProjectConfig{
		LabelDefinitions: []LabelDefinition{
			{Type: LabelTypeClassificationSingle, Target: LabelTargetDocument, Name: "invoice", Color: "#ff0000"},
			{Type: LabelTypeText, Target: LabelTargetBlock, Name: "total", Color: "#0f0"},
		},
		FileProvider: ProjectFileProvider{Type: FileProviderTypeLocal},
		OcrProvider:  ProjectOcrProvider{Type: OcrProviderTypeTesseract},
	}
}

func TestParseProjectConfig_Defaults(t *testing.T) {
	cfg, err := ParseProjectConfig([]byte(`{
		"file_provider": {"type": "local", "config": {"path": "/docs/"}},
		"ocr_provider": {"type": "tesseract", "config": {}}
	}`))
	if err != nil {
		t.Fatalf("ParseProjectConfig failed: %v", err)
	}
	if cfg.FileProvider.Config.PdfDpi != DefaultPdfDpi {
		t.Fatalf("pdf_dpi want=%d got=%d", DefaultPdfDpi, cfg.FileProvider.Config.PdfDpi)
	}
	if cfg.FileProvider.Config.ImageFormat != DefaultImageFormat {
		t.Fatalf("image_format want=%q got=%q", DefaultImageFormat, cfg.FileProvider.Config.ImageFormat)
	}
	if cfg.FileProvider.Config.Path != "docs" {
		t.Fatalf("path want=%q got=%q", "docs", cfg.FileProvider.Config.Path)
	}
}

func TestProjectConfig_ValidateOK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestProjectConfig_ValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProjectConfig)
	}{
		{"unknown file provider", func(c *ProjectConfig) { c.FileProvider.Type = "ftp" }},
		{"unknown ocr provider", func(c *ProjectConfig) { c.OcrProvider.Type = "easyocr" }},
		{"unknown label type", func(c *ProjectConfig) { c.LabelDefinitions[0].Type = "regression" }},
		{"unknown label target", func(c *ProjectConfig) { c.LabelDefinitions[0].Target = "word" }},
		{"text label on page", func(c *ProjectConfig) { c.LabelDefinitions[1].Target = LabelTargetPage }},
		{"empty label name", func(c *ProjectConfig) { c.LabelDefinitions[0].Name = "" }},
		{"bad color", func(c *ProjectConfig) { c.LabelDefinitions[0].Color = "red" }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error, got nil", tc.name)
		} else if !IsCode(err, ErrorCodeBadRequest) {
			t.Fatalf("%s: want code=%s got=%s", tc.name, ErrorCodeBadRequest, CodeOf(err))
		}
	}
}

func TestDocumentStatus_Manual(t *testing.T) {
	if DocumentStatusProcessing.Manual() {
		t.Fatalf("processing must not be settable manually")
	}
	for _, status := range []DocumentStatus{DocumentStatusOpen, DocumentStatusReview, DocumentStatusDone} {
		if !status.Manual() {
			t.Fatalf("%s should be settable manually", status)
		}
	}
}

func TestDocumentListFilter_Normalized(t *testing.T) {
	got := DocumentListFilter{OrderBy: "path", Order: "sideways", Limit: -5, Offset: -1}.Normalized()
	if got.OrderBy != OrderByID || got.Order != OrderAsc || got.Limit != 100 || got.Offset != 0 {
		t.Fatalf("unexpected normalization: %+v", got)
	}
}
