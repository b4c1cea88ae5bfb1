package services

import (
	"context"
	"errors"
	"sync"

	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/imports/repositories"

	"github.com/google/uuid"
)

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores []models.HardwareStore
	failOn map[string]error
}

func (r *fakeStoreRepo) CreateStore(ctx context.Context, store *models.HardwareStore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[store.Name]; ok {
		return err
	}
	store.ID = uuid.New()
	r.stores = append(r.stores, *store)
	return nil
}

func (r *fakeStoreRepo) GetStoreByID(ctx context.Context, id uuid.UUID) (*models.HardwareStore, error) {
	for _, s := range r.stores {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeStoreRepo) GetFilteredStores(ctx context.Context, filters map[string]string, limit, offset int) ([]models.HardwareStore, int64, error) {
	return r.stores, int64(len(r.stores)), nil
}

func (r *fakeStoreRepo) GetAllStores(ctx context.Context) ([]models.HardwareStore, error) {
	return r.stores, nil
}

type fakeImportRepo struct {
	mu               sync.Mutex
	sessions         map[uuid.UUID]*models.ImportSession
	files            []models.FileImportResult
	rowErrors        []models.ImportRowError
	emails           []models.EmailLog
	createSessionErr error
}

func newFakeImportRepo() *fakeImportRepo {
	return &fakeImportRepo{sessions: map[uuid.UUID]*models.ImportSession{}}
}

func (r *fakeImportRepo) CreateSession(ctx context.Context, session *models.ImportSession) error {
	if r.createSessionErr != nil {
		return r.createSessionErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeImportRepo) UpdateSession(ctx context.Context, session *models.ImportSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.ID]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	stored.ProcessedFiles = session.ProcessedFiles
	stored.Status = session.Status
	stored.TotalRecordsImported = session.TotalRecordsImported
	stored.CompletedAt = session.CompletedAt
	return nil
}

func (r *fakeImportRepo) AppendFileResult(ctx context.Context, result *models.FileImportResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, *result)
	return nil
}

func (r *fakeImportRepo) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.ImportSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	copied := *stored
	for _, f := range r.files {
		if f.SessionID == id {
			copied.Files = append(copied.Files, f)
		}
	}
	return &copied, nil
}

func (r *fakeImportRepo) GetFilteredSessions(ctx context.Context, filters repositories.SessionFilters, limit, offset int) ([]models.ImportSession, int64, error) {
	var out []models.ImportSession
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeImportRepo) LogRowErrors(ctx context.Context, rowErrors []models.ImportRowError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rowErrors = append(r.rowErrors, rowErrors...)
	return nil
}

func (r *fakeImportRepo) GetRowErrors(ctx context.Context, sessionID uuid.UUID) ([]models.ImportRowError, error) {
	var out []models.ImportRowError
	for _, e := range r.rowErrors {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeImportRepo) LogEmailSent(ctx context.Context, emailLog *models.EmailLog) error {
	r.emails = append(r.emails, *emailLog)
	return nil
}

type recordingIndexer struct {
	indexed []models.HardwareStore
	err     error
}

func (i *recordingIndexer) IndexStore(store models.HardwareStore) error {
	i.indexed = append(i.indexed, store)
	return i.err
}
