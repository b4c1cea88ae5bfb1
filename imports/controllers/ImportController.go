package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	achievementServices "hardware-distribution-backend/achievements/services"
	"hardware-distribution-backend/config"
	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/imports/repositories"
	"hardware-distribution-backend/imports/services"
	"hardware-distribution-backend/tasks"
	"hardware-distribution-backend/utils"
	"hardware-distribution-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventImportCompleted = "IMPORT_COMPLETED"

// BatchProcessor is the import pipeline as seen by the HTTP layer.
type BatchProcessor interface {
	Validate(files []services.RawFile) error
	ProcessBatch(ctx context.Context, batch services.Batch) (*services.BatchResult, error)
}

// AchievementRecorder receives the performance of every scored file.
type AchievementRecorder interface {
	RecordImportMetrics(ctx context.Context, userID uuid.UUID, sessionID, fileName string, perf models.ImportPerformance) (*achievementServices.RecordResult, error)
}

// ImportController wires uploads into the pipeline. Achievements, Reports
// and Events are optional.
type ImportController struct {
	Pipeline     BatchProcessor
	ImportRepo   repositories.ImportRepository
	Uploads      utils.FileStorage
	Achievements AchievementRecorder
	Reports      tasks.ErrorReportEnqueuer
	Events       achievementServices.EventPublisher
}

func (ic *ImportController) BulkImportStores(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Failed to read upload", "error": err.Error()})
	}
	headers := form.File["files"]

	var userID *uuid.UUID
	if raw := strings.TrimSpace(c.FormValue("user_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user_id", "error": err.Error()})
		}
		userID = &parsed
	}
	createdBy := strings.TrimSpace(c.FormValue("created_by"))
	if createdBy == "" {
		createdBy = "system"
	}
	notifyEmail := strings.TrimSpace(c.FormValue("notify_email"))

	files := make([]services.RawFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, services.RawFile{Name: fh.Filename, Size: fh.Size})
	}
	if err := ic.Pipeline.Validate(files); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid upload", "error": err.Error()})
	}

	stashed := ic.stashUploads(headers, files)
	defer ic.discardUploads(stashed)

	ctx := c.UserContext()
	result, err := ic.Pipeline.ProcessBatch(ctx, services.Batch{
		Files:       files,
		SessionName: strings.TrimSpace(c.FormValue("session_name")),
		CreatedBy:   createdBy,
		UserID:      userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrSessionNotPersisted) {
			config.Logger.Error("Failed to start import session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to start import session", "error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid upload", "error": err.Error()})
	}

	newAchievements := ic.recordAchievements(ctx, userID, result)
	reportQueued := ic.queueErrorReport(ctx, result, notifyEmail, createdBy)

	if userID != nil && ic.Events != nil {
		ic.Events.Publish(*userID, EventImportCompleted, fiber.Map{
			"sessionId":     result.SessionID,
			"status":        result.Status,
			"totalImported": result.TotalImported,
			"failedFiles":   result.FailedFiles(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":           result.Status == models.ImportSessionCompleted,
		"sessionId":         result.SessionID,
		"totalImported":     result.TotalImported,
		"results":           result.Results,
		"message":           result.Message(),
		"newAchievements":   newAchievements,
		"errorReportQueued": reportQueued,
	})
}

// stashUploads copies each upload into temporary storage and points the
// file's Open at the stored copy. When storage is unavailable the multipart
// part is read directly.
func (ic *ImportController) stashUploads(headers []*multipart.FileHeader, files []services.RawFile) []string {
	var stored []string
	for i, fh := range headers {
		fh := fh
		files[i].Open = func() (io.ReadCloser, error) { return fh.Open() }
		if ic.Uploads == nil {
			continue
		}

		src, err := fh.Open()
		if err != nil {
			continue
		}
		name, err := ic.Uploads.UploadFileFromReader(src, fmt.Sprintf("%s_%s", uuid.NewString(), utils.CleanStringForFilename(fh.Filename)))
		src.Close()
		if err != nil {
			config.Logger.Warn("Failed to stash upload, reading it in place", zap.String("file", fh.Filename), zap.Error(err))
			continue
		}
		stored = append(stored, name)
		files[i].Open = func() (io.ReadCloser, error) { return ic.Uploads.DownloadFile(name) }
	}
	return stored
}

func (ic *ImportController) discardUploads(stored []string) {
	for _, name := range stored {
		if err := ic.Uploads.DeleteFile(name); err != nil {
			config.Logger.Warn("Failed to remove stashed upload", zap.String("file", name), zap.Error(err))
		}
	}
}

func (ic *ImportController) recordAchievements(ctx context.Context, userID *uuid.UUID, result *services.BatchResult) []models.ImportAchievement {
	unlocked := []models.ImportAchievement{}
	if userID == nil || ic.Achievements == nil {
		return unlocked
	}
	for _, file := range result.Results {
		if file.Performance == nil {
			continue
		}
		recorded, err := ic.Achievements.RecordImportMetrics(ctx, *userID, result.SessionID.String(), file.FileName, *file.Performance)
		if err != nil {
			config.Logger.Warn("Failed to record import metrics",
				zap.String("user_id", userID.String()),
				zap.String("file", file.FileName),
				zap.Error(err),
			)
			if errors.Is(err, achievementServices.ErrUserNotFound) {
				return unlocked
			}
			continue
		}
		unlocked = append(unlocked, recorded.NewAchievements...)
	}
	return unlocked
}

func (ic *ImportController) queueErrorReport(ctx context.Context, result *services.BatchResult, email, requestedBy string) bool {
	if email == "" || ic.Reports == nil {
		return false
	}
	if len(result.RowErrors) == 0 && result.FailedFiles() == 0 {
		return false
	}
	err := ic.Reports.EnqueueErrorReport(ctx, tasks.ErrorReportPayload{
		SessionID:   result.SessionID,
		Email:       email,
		RequestedBy: requestedBy,
	})
	if err != nil {
		config.Logger.Error("Failed to queue import error report", zap.String("session_id", result.SessionID.String()), zap.Error(err))
		return false
	}
	return true
}

func (ic *ImportController) GetImportSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid session ID", "error": err.Error()})
	}

	ctx := c.UserContext()
	session, err := ic.ImportRepo.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Import session not found"})
		}
		config.Logger.Error("Failed to retrieve import session", zap.String("session_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve import session", "error": err.Error()})
	}

	rowErrors, err := ic.ImportRepo.GetRowErrors(ctx, id)
	if err != nil {
		config.Logger.Error("Failed to retrieve import row errors", zap.String("session_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to retrieve import errors", "error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Import session retrieved",
		"data":      session,
		"rowErrors": rowErrors,
	})
}

func (ic *ImportController) GetFilteredSessions(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid pagination parameters", "error": err.Error()})
	}

	from, to, err := utils.ParseDateRange(params.Filters["start_date"], params.Filters["end_date"])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid date range", "error": err.Error()})
	}

	filters := repositories.SessionFilters{
		Status:    models.ImportSessionStatus(params.Filters["status"]),
		CreatedBy: params.Filters["created_by"],
		UserID:    utils.StringToUUIDPtr(params.Filters["user_id"]),
		From:      from,
		To:        to,
	}

	sessions, total, err := ic.ImportRepo.GetFilteredSessions(c.UserContext(), filters, params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch import sessions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch import sessions", "error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, sessions, total, params))
}
