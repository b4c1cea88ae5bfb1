package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"hardware-distribution-backend/config"
	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/imports/repositories"
	storeRepositories "hardware-distribution-backend/stores/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RawFile is one uploaded spreadsheet. Open is called once, when the file's
// turn comes, so large batches are never held in memory together.
type RawFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// BytesFile wraps an in-memory payload.
func BytesFile(name string, data []byte) RawFile {
	return RawFile{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type Batch struct {
	Files       []RawFile
	SessionName string
	CreatedBy   string
	UserID      *uuid.UUID
}

type FileResult struct {
	FileName     string                    `json:"fileName"`
	TotalRows    int                       `json:"totalRows"`
	ValidRows    int                       `json:"validRows"`
	ImportedRows int                       `json:"importedRows"`
	Status       models.FileImportStatus   `json:"status"`
	Error        string                    `json:"error,omitempty"`
	Preview      []models.StorePreview     `json:"preview"`
	DurationMs   int64                     `json:"durationMs"`
	Performance  *models.ImportPerformance `json:"performance,omitempty"`
}

type BatchResult struct {
	SessionID     uuid.UUID                  `json:"sessionId"`
	Status        models.ImportSessionStatus `json:"status"`
	Results       []FileResult               `json:"results"`
	TotalImported int                        `json:"totalImported"`
	RowErrors     []models.ImportRowError    `json:"-"`
	// Stores holds every store created by the batch, in import order.
	Stores []models.HardwareStore `json:"-"`
}

// FailedFiles counts files whose status is error.
func (b *BatchResult) FailedFiles() int {
	failed := 0
	for _, r := range b.Results {
		if r.Status == models.FileImportError {
			failed++
		}
	}
	return failed
}

func (b *BatchResult) Message() string {
	failed := b.FailedFiles()
	if failed == 0 {
		return fmt.Sprintf("Imported %d stores from %d files", b.TotalImported, len(b.Results))
	}
	return fmt.Sprintf("Imported %d stores from %d files, %d files failed", b.TotalImported, len(b.Results), failed)
}

// StoreIndexer receives stores after they are committed. Indexing failures
// never affect the import.
type StoreIndexer interface {
	IndexStore(store models.HardwareStore) error
}

type ImportPipeline struct {
	storeRepo  storeRepositories.StoreRepository
	importRepo repositories.ImportRepository
	indexer    StoreIndexer
	settings   config.ImportSettings
	filter     RowFilter
	logger     *zap.Logger
	now        func() time.Time
}

func NewImportPipeline(
	storeRepo storeRepositories.StoreRepository,
	importRepo repositories.ImportRepository,
	indexer StoreIndexer,
	settings config.ImportSettings,
	logger *zap.Logger,
) *ImportPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportPipeline{
		storeRepo:  storeRepo,
		importRepo: importRepo,
		indexer:    indexer,
		settings:   settings,
		filter:     NewRowFilter(settings.HeaderKeywords),
		logger:     logger,
		now:        time.Now,
	}
}

// Validate rejects a batch that must not be processed at all.
func (p *ImportPipeline) Validate(files []RawFile) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if p.settings.MaxFiles > 0 && len(files) > p.settings.MaxFiles {
		return fmt.Errorf("%w: %d files, limit is %d", ErrTooManyFiles, len(files), p.settings.MaxFiles)
	}
	for _, f := range files {
		if p.settings.MaxFileBytes > 0 && f.Size > p.settings.MaxFileBytes {
			return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, f.Name, f.Size, p.settings.MaxFileBytes)
		}
	}
	return nil
}

// ProcessBatch imports every file in order. A file that cannot be read is
// reported as an error result and the batch moves on; only an invalid batch
// or a session that cannot be created fails the call.
func (p *ImportPipeline) ProcessBatch(ctx context.Context, batch Batch) (*BatchResult, error) {
	if err := p.Validate(batch.Files); err != nil {
		return nil, err
	}

	started := p.now()
	name := batch.SessionName
	if name == "" {
		name = "Bulk import " + started.Format("2006-01-02 15:04")
	}

	session := &models.ImportSession{
		ID:         uuid.New(),
		Name:       name,
		TotalFiles: len(batch.Files),
		Status:     models.ImportSessionActive,
		UserID:     batch.UserID,
		CreatedBy:  batch.CreatedBy,
	}
	if err := p.importRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotPersisted, err)
	}

	result := &BatchResult{
		SessionID: session.ID,
		Results:   make([]FileResult, 0, len(batch.Files)),
	}

	for position, file := range batch.Files {
		outcome := p.processFile(ctx, session, file)

		result.Results = append(result.Results, outcome.result)
		result.TotalImported += outcome.result.ImportedRows
		result.RowErrors = append(result.RowErrors, outcome.rowErrors...)
		result.Stores = append(result.Stores, outcome.stores...)

		p.recordFile(ctx, session, position, outcome)
	}

	session.Status = models.ImportSessionCompleted
	if result.FailedFiles() == len(result.Results) {
		session.Status = models.ImportSessionFailed
	}
	completedAt := p.now()
	session.CompletedAt = &completedAt
	if err := p.importRepo.UpdateSession(ctx, session); err != nil {
		p.logger.Error("Failed to finalize import session", zap.String("session_id", session.ID.String()), zap.Error(err))
	}
	result.Status = session.Status

	p.logger.Info("Import batch finished",
		zap.String("session_id", session.ID.String()),
		zap.Int("files", len(result.Results)),
		zap.Int("failed_files", result.FailedFiles()),
		zap.Int("imported", result.TotalImported),
		zap.Duration("elapsed", p.now().Sub(started)),
	)
	return result, nil
}

type rowOutcome struct {
	rowNumber int
	store     models.HardwareStore
	err       error
}

type fileOutcome struct {
	result    FileResult
	stores    []models.HardwareStore
	rowErrors []models.ImportRowError
}

func (p *ImportPipeline) processFile(ctx context.Context, session *models.ImportSession, file RawFile) fileOutcome {
	started := p.now()

	rows, err := p.readFile(file)
	if err != nil {
		p.logger.Error("Failed to parse import file", zap.String("file", file.Name), zap.Error(err))
		return fileOutcome{
			result: FileResult{
				FileName:   file.Name,
				Status:     models.FileImportError,
				Error:      err.Error(),
				Preview:    []models.StorePreview{},
				DurationMs: p.now().Sub(started).Milliseconds(),
			},
			rowErrors: []models.ImportRowError{{
				SessionID: session.ID,
				FileName:  file.Name,
				Reason:    err.Error(),
				ErrorType: models.FileParseErrorType,
				CreatedBy: session.CreatedBy,
			}},
		}
	}

	mapping := ResolveColumnMapping(rows, p.settings.DetectHeaders)
	outcome := fileOutcome{
		result: FileResult{
			FileName: file.Name,
			Status:   models.FileImportSuccess,
			Preview:  []models.StorePreview{},
		},
	}
	if len(rows) > 0 {
		outcome.result.TotalRows = len(rows) - 1
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if p.filter.Skip(row, mapping) {
			continue
		}
		outcome.result.ValidRows++

		imported := p.importRow(ctx, session, i+1, row, mapping)
		if imported.err != nil {
			p.logger.Warn("Failed to import row",
				zap.String("file", file.Name),
				zap.Int("row", imported.rowNumber),
				zap.String("store", imported.store.Name),
				zap.Error(imported.err),
			)
			outcome.rowErrors = append(outcome.rowErrors, models.ImportRowError{
				SessionID: session.ID,
				FileName:  file.Name,
				RowNumber: imported.rowNumber,
				StoreName: imported.store.Name,
				Reason:    imported.err.Error(),
				ErrorType: models.RowPersistErrorType,
				CreatedBy: session.CreatedBy,
			})
			continue
		}

		outcome.result.ImportedRows++
		outcome.stores = append(outcome.stores, imported.store)
		if len(outcome.result.Preview) < p.settings.PreviewLimit {
			outcome.result.Preview = append(outcome.result.Preview, previewOf(imported.store))
		}
	}

	outcome.result.DurationMs = p.now().Sub(started).Milliseconds()
	outcome.result.Performance = BuildPerformance(outcome.result, outcome.stores, outcome.rowErrors)
	p.indexStores(outcome.stores)
	return outcome
}

func (p *ImportPipeline) readFile(file RawFile) ([][]string, error) {
	if file.Open == nil {
		return nil, fmt.Errorf("file %s has no content", file.Name)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer rc.Close()
	return ReadRows(file.Name, rc)
}

// importRow makes exactly one write attempt for the row.
func (p *ImportPipeline) importRow(ctx context.Context, session *models.ImportSession, rowNumber int, row []string, mapping ColumnMapping) rowOutcome {
	store := BuildStore(row, mapping, storeMeta{
		CreatedBy: session.CreatedBy,
		SessionID: session.ID,
		Now:       p.now(),
	})
	if err := p.storeRepo.CreateStore(ctx, &store); err != nil {
		return rowOutcome{rowNumber: rowNumber, store: store, err: err}
	}
	return rowOutcome{rowNumber: rowNumber, store: store}
}

func (p *ImportPipeline) indexStores(stores []models.HardwareStore) {
	if p.indexer == nil {
		return
	}
	for _, store := range stores {
		if err := p.indexer.IndexStore(store); err != nil {
			p.logger.Warn("Failed to index store", zap.String("store_id", store.ID.String()), zap.Error(err))
		}
	}
}

// recordFile persists the file result and the running session counters.
// Failures here are logged; the caller still gets the in-memory result.
func (p *ImportPipeline) recordFile(ctx context.Context, session *models.ImportSession, position int, outcome fileOutcome) {
	preview, err := json.Marshal(outcome.result.Preview)
	if err != nil {
		preview = []byte("[]")
	}

	fileResult := &models.FileImportResult{
		SessionID:    session.ID,
		Position:     position,
		FileName:     outcome.result.FileName,
		TotalRows:    outcome.result.TotalRows,
		ValidRows:    outcome.result.ValidRows,
		ImportedRows: outcome.result.ImportedRows,
		Status:       outcome.result.Status,
		Preview:      datatypes.JSON(preview),
		DurationMs:   outcome.result.DurationMs,
	}
	if outcome.result.Error != "" {
		msg := outcome.result.Error
		fileResult.ErrorMessage = &msg
	}
	if err := p.importRepo.AppendFileResult(ctx, fileResult); err != nil {
		p.logger.Error("Failed to save file result", zap.String("file", fileResult.FileName), zap.Error(err))
	}

	if err := p.importRepo.LogRowErrors(ctx, outcome.rowErrors); err != nil {
		p.logger.Error("Failed to log import row errors", zap.String("file", fileResult.FileName), zap.Error(err))
	}

	session.ProcessedFiles++
	session.TotalRecordsImported += outcome.result.ImportedRows
	if err := p.importRepo.UpdateSession(ctx, session); err != nil {
		p.logger.Error("Failed to update import session", zap.String("session_id", session.ID.String()), zap.Error(err))
	}
}
