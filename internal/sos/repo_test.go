package sos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nurlan2209/undeme/pkg/db/models"
	"github.com/nurlan2209/undeme/pkg/enums"
)

func setupSosTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	events := `
CREATE TABLE IF NOT EXISTS sos_events (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  reason TEXT,
  status TEXT NOT NULL DEFAULT 'queued',
  location_latitude REAL NOT NULL,
  location_longitude REAL NOT NULL,
  location_accuracy REAL,
  location_provider TEXT,
  location_captured_at DATETIME,
  recipients_count INTEGER NOT NULL DEFAULT 0,
  dispatched_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	attempts := `
CREATE TABLE IF NOT EXISTS sos_attempts (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  channel TEXT NOT NULL,
  success INTEGER NOT NULL,
  error TEXT,
  at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(events).Error)
	require.NoError(t, db.Exec(attempts).Error)
	return db
}

func newStoredEvent(t *testing.T, repo Repository, userID uuid.UUID, createdAt time.Time) *models.SosEvent {
	t.Helper()
	event := &models.SosEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    enums.SosStatusQueued,
		Location:  models.Location{Latitude: 51.1, Longitude: 71.4},
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	db := setupSosTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	event := newStoredEvent(t, repo, userID, time.Now())

	found, err := repo.FindByID(context.Background(), userID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, found.ID)
	assert.Equal(t, enums.SosStatusQueued, found.Status)
	assert.Empty(t, found.Attempts)
}

func TestRepository_FindByIDScopedToOwner(t *testing.T) {
	db := setupSosTestDB(t)
	repo := NewRepository(db)

	event := newStoredEvent(t, repo, uuid.New(), time.Now())

	_, err := repo.FindByID(context.Background(), uuid.New(), event.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_LatestForUser(t *testing.T) {
	db := setupSosTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	none, err := repo.LatestForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, none)

	newStoredEvent(t, repo, userID, time.Now().Add(-time.Hour))
	newest := newStoredEvent(t, repo, userID, time.Now())

	latest, err := repo.LatestForUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newest.ID, latest.ID)
}

func TestRepository_AppendRoundKeepsHistory(t *testing.T) {
	db := setupSosTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()
	event := newStoredEvent(t, repo, userID, time.Now())

	firstRound := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	errText := "webhook returned 502"
	require.NoError(t, repo.AppendRound(context.Background(), event.ID, []models.SosAttempt{
		{Channel: enums.ChannelWebhook, Success: false, Error: &errText, At: firstRound},
		{Channel: enums.ChannelMessagingAPI, Success: true, At: firstRound},
	}, enums.SosStatusPartiallySent, firstRound))

	secondRound := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.AppendRound(context.Background(), event.ID, []models.SosAttempt{
		{Channel: enums.ChannelWebhook, Success: true, At: secondRound},
		{Channel: enums.ChannelMessagingAPI, Success: true, At: secondRound},
	}, enums.SosStatusSent, secondRound))

	found, err := repo.FindByID(context.Background(), userID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SosStatusSent, found.Status)
	require.NotNil(t, found.DispatchedAt)
	require.Len(t, found.Attempts, 4)

	// First round rows are untouched by the second round.
	assert.False(t, found.Attempts[0].Success)
	require.NotNil(t, found.Attempts[0].Error)
	assert.Equal(t, errText, *found.Attempts[0].Error)
}

func TestRepository_ListForUserNewestFirst(t *testing.T) {
	db := setupSosTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	oldest := newStoredEvent(t, repo, userID, time.Now().Add(-2*time.Hour))
	middle := newStoredEvent(t, repo, userID, time.Now().Add(-time.Hour))
	newest := newStoredEvent(t, repo, userID, time.Now())
	newStoredEvent(t, repo, uuid.New(), time.Now()) // other user

	events, err := repo.ListForUser(context.Background(), userID, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, newest.ID, events[0].ID)
	assert.Equal(t, middle.ID, events[1].ID)

	all, err := repo.ListForUser(context.Background(), userID, 20)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, oldest.ID, all[2].ID)
}
