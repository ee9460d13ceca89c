package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type FileProviderType string

const (
	FileProviderTypeLocal FileProviderType = "local"
	FileProviderTypeS3    FileProviderType = "s3"
)

type OcrProviderType string

const (
	OcrProviderTypeTesseract OcrProviderType = "tesseract"
	OcrProviderTypeTextract  OcrProviderType = "textract"
)

// AwsConfig carries the credential and role fields shared by every AWS-backed
// provider. Any field may contain {{ENV_VAR}} placeholders.
type AwsConfig struct {
	AwsAccessKeyID     string `json:"aws_access_key_id"`
	AwsSecretAccessKey string `json:"aws_secret_access_key"`
	AwsRegionName      string `json:"aws_region_name"`
	AwsAccountID       string `json:"aws_account_id"`
	AwsRoleName        string `json:"aws_role_name"`
}

// FileProviderConfig is the superset of the per-variant file provider
// settings. The local variant uses Path/PdfDpi/ImageFormat; the s3 variant
// additionally uses the AWS fields and the bucket name.
type FileProviderConfig struct {
	Path        string `json:"path"`
	PdfDpi      int    `json:"pdf_dpi"`
	ImageFormat string `json:"image_format"`

	AwsConfig
	AwsBucketName string `json:"aws_bucket_name"`
}

type OcrProviderConfig struct {
	Language string `json:"language"`

	AwsConfig
}

type ProjectFileProvider struct {
	Type   FileProviderType   `json:"type"`
	Config FileProviderConfig `json:"config"`
}

type ProjectOcrProvider struct {
	Type   OcrProviderType   `json:"type"`
	Config OcrProviderConfig `json:"config"`
}

// ProjectConfig is the JSON persisted in project.config.
type ProjectConfig struct {
	LabelDefinitions []LabelDefinition   `json:"label_definitions"`
	FileProvider     ProjectFileProvider `json:"file_provider"`
	OcrProvider      ProjectOcrProvider  `json:"ocr_provider"`
}

const (
	DefaultPdfDpi      = 200
	DefaultImageFormat = "JPEG"
)

func ParseProjectConfig(raw []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, NewError(ErrorCodeBadRequest, "invalid project config", err)
	}
	if cfg.FileProvider.Config.PdfDpi == 0 {
		cfg.FileProvider.Config.PdfDpi = DefaultPdfDpi
	}
	if cfg.FileProvider.Config.ImageFormat == "" {
		cfg.FileProvider.Config.ImageFormat = DefaultImageFormat
	}
	cfg.FileProvider.Config.Path = strings.Trim(cfg.FileProvider.Config.Path, "/")
	return &cfg, nil
}

func (c *ProjectConfig) Validate() error {
	switch c.FileProvider.Type {
	case FileProviderTypeLocal, FileProviderTypeS3:
	default:
		return BadRequest("unsupported file provider type: %s", c.FileProvider.Type)
	}
	switch c.OcrProvider.Type {
	case OcrProviderTypeTesseract, OcrProviderTypeTextract:
	default:
		return BadRequest("unsupported ocr provider type: %s", c.OcrProvider.Type)
	}
	for _, def := range c.LabelDefinitions {
		if err := def.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d LabelDefinition) Validate() error {
	switch d.Type {
	case LabelTypeClassificationSingle, LabelTypeClassificationMultiple, LabelTypeText:
	default:
		return BadRequest("unsupported label type: %s", d.Type)
	}
	switch d.Target {
	case LabelTargetDocument, LabelTargetPage, LabelTargetBlock:
	default:
		return BadRequest("unsupported label target: %s", d.Target)
	}
	if d.Type == LabelTypeText && d.Target != LabelTargetBlock {
		return BadRequest("text labels must target blocks, got target: %s", d.Target)
	}
	if len(d.Name) < 1 || len(d.Name) > 50 {
		return BadRequest("label name must be between 1 and 50 characters")
	}
	if !colorPattern.MatchString(d.Color) {
		return BadRequest("label color must be #RGB or #RRGGBB, got: %s", d.Color)
	}
	return nil
}

func (c ProjectConfig) MarshalRaw() ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal project config: %w", err)
	}
	return raw, nil
}
