package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// maxRestoreBytes caps the restore upload size at 10 MB
const maxRestoreBytes = 10 << 20

// BackupHandler handles backup HTTP requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// RestoreResponse reports what a completed restore replaced
type RestoreResponse struct {
	Splits       int `json:"splits"`
	Transactions int `json:"transactions"`
	Categories   int `json:"categories"`
}

// ArchiveResponse reports where an archived backup was stored
type ArchiveResponse struct {
	Key string `json:"key"`
}

// ArchivedBackupResponse represents one archived backup in listings
type ArchivedBackupResponse struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Export handles GET /api/v1/backup/export.
// Serves the full backup document as a JSON file download.
func (h *BackupHandler) Export(c echo.Context) error {
	filename, doc := h.backupService.Export(time.Now().UTC())

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))

	log.Info().Str("filename", filename).Int("splits", len(doc.Expenses)).Msg("Backup exported")
	return c.JSON(http.StatusOK, doc)
}

// Restore handles POST /api/v1/backup/restore.
// The request body is a backup document; legacy versions are migrated on the way in.
func (h *BackupHandler) Restore(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRestoreBytes))
	if err != nil {
		return NewValidationError(c, "Failed to read request body", nil)
	}

	result, err := h.backupService.Restore(c.Request().Context(), data)
	if err != nil {
		return h.mapRestoreError(c, err)
	}

	log.Info().
		Int("splits", result.Splits).
		Int("transactions", result.Transactions).
		Int("categories", result.Categories).
		Msg("Backup restored")

	return c.JSON(http.StatusOK, toRestoreResponse(result))
}

// Archive handles POST /api/v1/backup/archive
func (h *BackupHandler) Archive(c echo.Context) error {
	key, err := h.backupService.Archive(c.Request().Context(), time.Now().UTC())
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			return NewUnavailableError(c, "Backup archive is not configured")
		}
		log.Error().Err(err).Msg("Failed to archive backup")
		return NewInternalError(c, "Failed to archive backup")
	}

	log.Info().Str("key", key).Msg("Backup archived")
	return c.JSON(http.StatusCreated, ArchiveResponse{Key: key})
}

// ListArchived handles GET /api/v1/backup/archive
func (h *BackupHandler) ListArchived(c echo.Context) error {
	objects, err := h.backupService.ListArchived(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			return NewUnavailableError(c, "Backup archive is not configured")
		}
		log.Error().Err(err).Msg("Failed to list archived backups")
		return NewInternalError(c, "Failed to list archived backups")
	}

	response := make([]ArchivedBackupResponse, len(objects))
	for i, obj := range objects {
		response[i] = ArchivedBackupResponse{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// RestoreArchived handles POST /api/v1/backup/archive/restore
func (h *BackupHandler) RestoreArchived(c echo.Context) error {
	var req ArchiveResponse
	if err := c.Bind(&req); err != nil || req.Key == "" {
		return NewValidationError(c, "Invalid request body", []ValidationError{
			{Field: "key", Message: "is required"},
		})
	}

	result, err := h.backupService.RestoreArchived(c.Request().Context(), req.Key)
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			return NewUnavailableError(c, "Backup archive is not configured")
		}
		return h.mapRestoreError(c, err)
	}

	log.Info().Str("key", req.Key).Int("splits", result.Splits).Msg("Archived backup restored")
	return c.JSON(http.StatusOK, toRestoreResponse(result))
}

func (h *BackupHandler) mapRestoreError(c echo.Context, err error) error {
	var fe *domain.FormatError
	if errors.As(err, &fe) {
		return NewFormatError(c, fe.Reason)
	}
	log.Error().Err(err).Msg("Failed to restore backup")
	return NewInternalError(c, "Failed to restore backup")
}

func toRestoreResponse(result *service.RestoreResult) RestoreResponse {
	return RestoreResponse{
		Splits:       result.Splits,
		Transactions: result.Transactions,
		Categories:   result.Categories,
	}
}
