package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/imports/repositories"
	"hardware-distribution-backend/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TypeImportErrorReport is enqueued after a batch that rejected rows or files.
	TypeImportErrorReport = "import:error_report"
)

type ErrorReportPayload struct {
	SessionID   uuid.UUID `json:"session_id"`
	Email       string    `json:"email"`
	RequestedBy string    `json:"requested_by"`
}

// ErrorReportEnqueuer schedules error reports for the worker.
type ErrorReportEnqueuer interface {
	EnqueueErrorReport(ctx context.Context, payload ErrorReportPayload) error
}

func NewErrorReportTask(payload ErrorReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeImportErrorReport, data), nil
}

type asynqEnqueuer struct {
	client *asynq.Client
}

func NewErrorReportEnqueuer(client *asynq.Client) ErrorReportEnqueuer {
	return &asynqEnqueuer{client: client}
}

func (e *asynqEnqueuer) EnqueueErrorReport(ctx context.Context, payload ErrorReportPayload) error {
	task, err := NewErrorReportTask(payload)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute)); err != nil {
		return fmt.Errorf("enqueue error report: %w", err)
	}
	return nil
}

// errorReportRow is one line of the spreadsheet sent to the uploader.
type errorReportRow struct {
	FileName  string
	RowNumber int
	StoreName string
	ErrorType string
	Reason    string
}

var errorReportHeaders = []string{"FileName", "RowNumber", "StoreName", "ErrorType", "Reason"}

// MailFunc matches utils.SendEmail.
type MailFunc func(email, message, title, downloadLink, attachmentPath string) error

type ErrorReportHandler struct {
	importRepo repositories.ImportRepository
	sendEmail  MailFunc
	reportsDir string
	logger     *zap.Logger
}

func NewErrorReportHandler(importRepo repositories.ImportRepository, sendEmail MailFunc, reportsDir string, logger *zap.Logger) *ErrorReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reportsDir == "" {
		reportsDir = utils.ReportsDir
	}
	return &ErrorReportHandler{
		importRepo: importRepo,
		sendEmail:  sendEmail,
		reportsDir: reportsDir,
		logger:     logger,
	}
}

// ProcessTask implements asynq.Handler.
func (h *ErrorReportHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ErrorReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %v", asynq.SkipRetry, err)
	}
	return h.Handle(ctx, payload)
}

// Handle writes the session's rejected rows to a workbook, mails the link and
// logs the e-mail.
func (h *ErrorReportHandler) Handle(ctx context.Context, payload ErrorReportPayload) error {
	if payload.Email == "" {
		return fmt.Errorf("error report for %s has no recipient: %w", payload.SessionID, asynq.SkipRetry)
	}

	session, err := h.importRepo.GetSessionByID(ctx, payload.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return fmt.Errorf("session %s: %w: %v", payload.SessionID, asynq.SkipRetry, err)
		}
		return err
	}

	rowErrors, err := h.importRepo.GetRowErrors(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("load row errors for %s: %w", payload.SessionID, err)
	}
	if len(rowErrors) == 0 {
		h.logger.Info("No import errors to report", zap.String("session_id", payload.SessionID.String()))
		return nil
	}

	rows := make([]errorReportRow, 0, len(rowErrors))
	for _, e := range rowErrors {
		rows = append(rows, errorReportRow{
			FileName:  e.FileName,
			RowNumber: e.RowNumber,
			StoreName: e.StoreName,
			ErrorType: string(e.ErrorType),
			Reason:    e.Reason,
		})
	}

	publicPath, err := utils.GenerateExcel(h.reportsDir, rows, "import_errors_"+session.Name, errorReportHeaders)
	if err != nil {
		return fmt.Errorf("generate error report: %w", err)
	}
	diskPath := filepath.Join(h.reportsDir, filepath.Base(publicPath))
	downloadLink := utils.GenerateDownloadLink(publicPath)

	subject := fmt.Sprintf("Import errors: %s", session.Name)
	message := fmt.Sprintf("%d rows from import %q could not be imported. The attached report lists each row and the reason.", len(rowErrors), session.Name)
	if err := h.sendEmail(payload.Email, message, subject, downloadLink, diskPath); err != nil {
		return fmt.Errorf("send error report: %w", err)
	}

	active := true
	emailLog := &models.EmailLog{
		Recipient:      payload.Email,
		Subject:        subject,
		Message:        message,
		SentAt:         time.Now(),
		Active:         &active,
		AttachmentPath: publicPath,
	}
	if err := h.importRepo.LogEmailSent(ctx, emailLog); err != nil {
		h.logger.Error("Failed to log error report e-mail", zap.String("recipient", payload.Email), zap.Error(err))
	}

	h.logger.Info("Import error report sent",
		zap.String("session_id", payload.SessionID.String()),
		zap.String("recipient", payload.Email),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// NewServeMux routes every task type the worker handles.
func NewServeMux(errorReports *ErrorReportHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeImportErrorReport, errorReports)
	return mux
}
