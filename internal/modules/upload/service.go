package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"travelagency/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MaxFileSize   = 10 * 1024 * 1024 // 10 MB
	StaticURLBase = "/static/uploads"
)

// AllowedMimeTypes defines which file types are accepted
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type Repository interface {
	Create(ctx context.Context, u *domain.Upload) error
}

// Service stores admin uploads (package photos, gallery images, brochures) on local disk.
type Service struct {
	repo       Repository
	baseDir    string
	staticBase string
	log        *logrus.Logger
	now        func() time.Time
}

func NewService(repo Repository, baseDir string, log *logrus.Logger) *Service {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &Service{repo: repo, baseDir: baseDir, staticBase: StaticURLBase, log: log, now: time.Now}
}

func (s *Service) BaseDir() string { return s.baseDir }

// Upload saves a file under YYYY/MM/DD and records it in the database.
func (s *Service) Upload(ctx context.Context, adminID int64, fileHeader *multipart.FileHeader) (*domain.Upload, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("detect mime type: %w", err)
	}
	mimeType := strings.Split(mt.String(), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(fileHeader.Filename), mt.Extension())
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxFileSize)); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relPath := path.Join(relDir, filename)
	rec := &domain.Upload{
		AdminID:      adminID,
		OriginalName: filepath.Base(fileHeader.Filename),
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		Path:         relPath,
		URL:          s.staticBase + "/" + relPath,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	s.log.WithFields(logrus.Fields{"admin_id": adminID, "path": relPath, "size": rec.Size}).Info("file uploaded")
	return rec, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "_" {
		return "file"
	}
	return name
}
