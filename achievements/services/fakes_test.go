package services

import (
	"context"
	"errors"
	"sync"

	"hardware-distribution-backend/achievements/repositories"
	"hardware-distribution-backend/db/models"

	"github.com/google/uuid"
)

type fakeAchievementRepo struct {
	mu           sync.Mutex
	users        map[uuid.UUID]bool
	progress     map[uuid.UUID][]models.UserAchievementProgress
	achievements []models.ImportAchievement
	metrics      []models.ImportAccuracyMetrics
	failMetrics  bool
}

func newFakeAchievementRepo(users ...uuid.UUID) *fakeAchievementRepo {
	repo := &fakeAchievementRepo{
		users:    map[uuid.UUID]bool{},
		progress: map[uuid.UUID][]models.UserAchievementProgress{},
	}
	for _, id := range users {
		repo.users[id] = true
	}
	return repo
}

func (r *fakeAchievementRepo) WithTransaction(ctx context.Context, fn func(tx repositories.AchievementRepository) error) error {
	return fn(r)
}

func (r *fakeAchievementRepo) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID], nil
}

func (r *fakeAchievementRepo) GetProgress(ctx context.Context, userID uuid.UUID) ([]models.UserAchievementProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]models.UserAchievementProgress, len(r.progress[userID]))
	copy(rows, r.progress[userID])
	return rows, nil
}

func (r *fakeAchievementRepo) GetProgressForUpdate(ctx context.Context, userID uuid.UUID) ([]models.UserAchievementProgress, error) {
	return r.GetProgress(ctx, userID)
}

func (r *fakeAchievementRepo) CreateProgressRows(ctx context.Context, rows []models.UserAchievementProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.progress[row.UserID] = append(r.progress[row.UserID], row)
	}
	return nil
}

func (r *fakeAchievementRepo) SaveProgress(ctx context.Context, progress *models.UserAchievementProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.progress[progress.UserID]
	for i := range rows {
		if rows[i].ID == progress.ID {
			rows[i] = *progress
			return nil
		}
	}
	return errors.New("progress row not found")
}

func (r *fakeAchievementRepo) GetAchievements(ctx context.Context, userID uuid.UUID) ([]models.ImportAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ImportAchievement
	for _, a := range r.achievements {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) HasAchievement(ctx context.Context, userID uuid.UUID, achievementType models.AchievementType, level int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasLocked(userID, achievementType, level), nil
}

func (r *fakeAchievementRepo) hasLocked(userID uuid.UUID, achievementType models.AchievementType, level int) bool {
	for _, a := range r.achievements {
		if a.UserID == userID && a.AchievementType == achievementType && a.Level == level {
			return true
		}
	}
	return false
}

func (r *fakeAchievementRepo) CreateAchievement(ctx context.Context, achievement *models.ImportAchievement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasLocked(achievement.UserID, achievement.AchievementType, achievement.Level) {
		return false, nil
	}
	if achievement.ID == uuid.Nil {
		achievement.ID = uuid.New()
	}
	r.achievements = append(r.achievements, *achievement)
	return true, nil
}

func (r *fakeAchievementRepo) CreateMetrics(ctx context.Context, metrics *models.ImportAccuracyMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMetrics {
		return errors.New("metrics table unavailable")
	}
	if metrics.ID == uuid.Nil {
		metrics.ID = uuid.New()
	}
	r.metrics = append(r.metrics, *metrics)
	return nil
}

func (r *fakeAchievementRepo) GetRecentMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]models.ImportAccuracyMetrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ImportAccuracyMetrics
	for i := len(r.metrics) - 1; i >= 0 && len(out) < limit; i-- {
		if r.metrics[i].UserID == userID {
			out = append(out, r.metrics[i])
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) progressOf(userID uuid.UUID, t models.AchievementType) models.UserAchievementProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.progress[userID] {
		if p.AchievementType == t {
			return p
		}
	}
	return models.UserAchievementProgress{}
}

type publishedEvent struct {
	userID    uuid.UUID
	eventType string
	payload   interface{}
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) Publish(userID uuid.UUID, eventType string, payload interface{}) {
	p.events = append(p.events, publishedEvent{userID: userID, eventType: eventType, payload: payload})
}

type memoryCache struct {
	entries     map[uuid.UUID]*AchievementSnapshot
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[uuid.UUID]*AchievementSnapshot{}}
}

func (c *memoryCache) Get(ctx context.Context, userID uuid.UUID) (*AchievementSnapshot, bool) {
	s, ok := c.entries[userID]
	return s, ok
}

func (c *memoryCache) Set(ctx context.Context, snapshot *AchievementSnapshot) {
	c.entries[snapshot.UserID] = snapshot
}

func (c *memoryCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	delete(c.entries, userID)
	c.invalidated++
}
