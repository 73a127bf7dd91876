package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kanban-lite/kanban/broker"
	"kanban-lite/kanban/database"
	"kanban-lite/kanban/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxImageSize = 5 << 20 // 5 MiB per task image
	MaxLogoSize  = 2 << 20 // 2 MiB for the board logo

	// logoPrefix marks files owned by site config rather than tasks; the
	// orphan sweep never touches them.
	logoPrefix = "logo_"
)

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
var logoMimeTypes = append(imageMimeTypes, "image/svg+xml")

// UploadedFile describes a stored attachment in API response shape.
type UploadedFile struct {
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	OriginalName string `json:"originalName"`
}

// CleanupResult reports exactly what an orphan sweep removed.
type CleanupResult struct {
	DeletedCount int      `json:"deleted_count"`
	DeletedFiles []string `json:"deleted_files"`
}

type UploadServiceInterface interface {
	SaveImages(files []*multipart.FileHeader) ([]UploadedFile, error)
	SaveLogo(file *multipart.FileHeader) (UploadedFile, error)
	CleanupOrphans(db *database.Database) (CleanupResult, error)
}

type UploadService struct {
	uploadDir string
}

func NewUploadService(uploadDir string) *UploadService {
	return &UploadService{uploadDir: uploadDir}
}

// SaveImages validates and persists a batch of task images. Validation is
// per file: a rejected file does not block the rest of the batch. When no
// file makes it through, the last per-file error is wrapped so callers can
// tell a size rejection from a type rejection.
func (s *UploadService) SaveImages(files []*multipart.FileHeader) ([]UploadedFile, error) {
	var uploaded []UploadedFile
	var lastErr error

	for _, header := range files {
		file, err := s.saveFile(header, MaxImageSize, imageMimeTypes, "img_"+uuid.New().String())
		if err != nil {
			log.Printf("Skipping file %s: %v", header.Filename, err)
			lastErr = err
			continue
		}
		uploaded = append(uploaded, file)
	}

	if len(uploaded) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoFilesUploaded, lastErr)
		}
		return nil, ErrNoFilesUploaded
	}

	return uploaded, nil
}

// SaveLogo stores the single board logo with its own size cap and an
// allowed-type set that additionally accepts SVG.
func (s *UploadService) SaveLogo(header *multipart.FileHeader) (UploadedFile, error) {
	name := fmt.Sprintf("%s%d_%s", logoPrefix, time.Now().Unix(), uuid.New().String())
	return s.saveFile(header, MaxLogoSize, logoMimeTypes, name)
}

func (s *UploadService) saveFile(header *multipart.FileHeader, maxSize int64, allowed []string, baseName string) (UploadedFile, error) {
	if header.Size > maxSize {
		return UploadedFile{}, fmt.Errorf("%w: '%s' exceeds %d bytes", ErrFileTooLarge, header.Filename, maxSize)
	}

	src, err := header.Open()
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to open uploaded file '%s': %w", header.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return UploadedFile{}, fmt.Errorf("failed to read uploaded file '%s': %w", header.Filename, err)
	}
	if int64(len(data)) > maxSize {
		return UploadedFile{}, fmt.Errorf("%w: '%s' exceeds %d bytes", ErrFileTooLarge, header.Filename, maxSize)
	}

	// Trust the bytes, not the declared content type.
	mtype := mimetype.Detect(data)
	if !mimeAllowed(mtype, allowed) {
		return UploadedFile{}, fmt.Errorf("%w: '%s' detected as %s", ErrInvalidFileType, header.Filename, mtype.String())
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = mtype.Extension()
	}
	filename := baseName + ext

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return UploadedFile{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	storagePath := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(storagePath, data, 0o644); err != nil {
		return UploadedFile{}, fmt.Errorf("failed to save file '%s': %w", header.Filename, err)
	}

	return UploadedFile{
		Filename:     filename,
		Path:         storagePath,
		OriginalName: header.Filename,
	}, nil
}

func mimeAllowed(mtype *mimetype.MIME, allowed []string) bool {
	for _, candidate := range allowed {
		if mtype.Is(candidate) {
			return true
		}
	}
	return false
}

// CleanupOrphans deletes every stored task image that no task references
// anymore. The sweep is explicit and irreversible; there is no trash. A
// missing upload directory reports zero deletions instead of failing.
func (s *UploadService) CleanupOrphans(db *database.Database) (CleanupResult, error) {
	var tasks []models.Task
	if err := db.DB.Find(&tasks).Error; err != nil {
		return CleanupResult{}, err
	}

	referenced := make(map[string]bool)
	for _, task := range tasks {
		for _, filename := range task.Images {
			referenced[filename] = true
		}
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Upload directory %s does not exist, nothing to clean", s.uploadDir)
			return CleanupResult{DeletedFiles: []string{}}, nil
		}
		return CleanupResult{}, err
	}

	result := CleanupResult{DeletedFiles: []string{}}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if referenced[name] {
			continue
		}
		// Logo files belong to site config, not to any task.
		if strings.HasPrefix(name, logoPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil {
			log.Printf("Failed to delete orphaned file %s: %v", name, err)
			continue
		}
		result.DeletedFiles = append(result.DeletedFiles, name)
		result.DeletedCount++
	}

	event, err := models.NewEvent(string(broker.CleanupSwept), "attachment", map[string]interface{}{
		"deleted_count": result.DeletedCount,
		"deleted_files": result.DeletedFiles,
	})
	if err == nil {
		if err := db.DB.Create(event).Error; err != nil {
			log.Printf("Failed to record cleanup event: %v", err)
		} else {
			publishEvent(event)
		}
	}

	return result, nil
}

var UploadServiceInstance UploadServiceInterface
