package services

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/types"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database failed: %v", err)
	}
	if err := conn.AutoMigrate(&types.User{}, &types.Project{}, &types.Document{}, &types.Ocr{}); err != nil {
		t.Fatalf("migrate test database failed: %v", err)
	}
	return conn
}

func testProjectConfig(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(domain.ProjectConfig{
		LabelDefinitions: []domain.LabelDefinition{
			{Type: domain.LabelTypeClassificationSingle, Target: domain.LabelTargetDocument, Name: "invoice", Color: "#ff0000"},
			{Type: domain.LabelTypeClassificationMultiple, Target: domain.LabelTargetPage, Name: "handwritten", Color: "#00ff00"},
			{Type: domain.LabelTypeText, Target: domain.LabelTargetBlock, Name: "total", Color: "#0000ff"},
		},
		FileProvider: domain.ProjectFileProvider{Type: domain.FileProviderTypeLocal},
		OcrProvider:  domain.ProjectOcrProvider{Type: domain.OcrProviderTypeTesseract},
	})
	if err != nil {
		t.Fatalf("marshal test config failed: %v", err)
	}
	return raw
}

func seedProject(t *testing.T, db *gorm.DB) *types.Project {
	t.Helper()
	project := &types.Project{Name: "test-project", Config: testProjectConfig(t)}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project failed: %v", err)
	}
	return project
}

func seedDocument(t *testing.T, db *gorm.DB, projectID int64, path string, status domain.DocumentStatus) *types.Document {
	t.Helper()
	document := &types.Document{ProjectID: projectID, Path: path, Status: status}
	if err := db.Create(document).Error; err != nil {
		t.Fatalf("seed document failed: %v", err)
	}
	return document
}

func seedUser(t *testing.T, db *gorm.DB, username string) *types.User {
	t.Helper()
	user := &types.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func intptr(n int) *int { return &n }
