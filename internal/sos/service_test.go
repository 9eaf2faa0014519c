package sos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurlan2209/undeme/internal/notify"
	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/db/models"
	"github.com/nurlan2209/undeme/pkg/enums"
	pkgerrors "github.com/nurlan2209/undeme/pkg/errors"
	"github.com/nurlan2209/undeme/pkg/logger"
)

type fakeRepo struct {
	events map[uuid.UUID]*models.SosEvent
	latest *models.SosEvent
	listed []models.SosEvent
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[uuid.UUID]*models.SosEvent{}}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, event *models.SosEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, userID, eventID uuid.UUID) (*models.SosEvent, error) {
	event, ok := f.events[eventID]
	if !ok || event.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *event
	clone.Attempts = append([]models.SosAttempt(nil), event.Attempts...)
	return &clone, nil
}

func (f *fakeRepo) LatestForUser(ctx context.Context, userID uuid.UUID) (*models.SosEvent, error) {
	if f.latest != nil && f.latest.UserID == userID {
		return f.latest, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SosEvent, error) {
	if len(f.listed) > limit {
		return f.listed[:limit], nil
	}
	return f.listed, nil
}

func (f *fakeRepo) AppendRound(ctx context.Context, eventID uuid.UUID, attempts []models.SosAttempt, status enums.SosStatus, dispatchedAt time.Time) error {
	event, ok := f.events[eventID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	event.Attempts = append(event.Attempts, attempts...)
	event.Status = status
	event.DispatchedAt = &dispatchedAt
	return nil
}

type fakeUsers struct {
	user *models.User
}

func (f *fakeUsers) FindActive(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

type recordingSender struct {
	channel enums.Channel
	success bool
	alerts  []notify.Alert
}

func (r *recordingSender) Channel() enums.Channel { return r.channel }

func (r *recordingSender) Send(ctx context.Context, alert notify.Alert) notify.Outcome {
	r.alerts = append(r.alerts, alert)
	outcome := notify.Outcome{Channel: r.channel, Success: r.success}
	if !r.success {
		outcome.Error = "delivery refused"
	}
	return outcome
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		FullName: "Aizhan Bekova",
		Phone:    "+77011234567",
		EmergencyContacts: []models.EmergencyContact{
			{ID: uuid.New(), Name: "Dana", Phone: "+77017654321"},
		},
	}
}

func newTestService(t *testing.T, repo Repository, users UserDirectory, senders ...notify.Sender) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	coordinator := NewCoordinator(senders, nil, logg)
	svc, err := NewService(repo, users, coordinator, config.SosConfig{CooldownSeconds: 30, HistoryLimit: 20}, logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func triggerInput() TriggerInput {
	return TriggerInput{
		Reason:   "followed on the street",
		Location: LocationInput{Latitude: 51.1, Longitude: 71.4},
	}
}

func TestTrigger_AllChannelsSucceed(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	webhook := &recordingSender{channel: enums.ChannelWebhook, success: true}
	messaging := &recordingSender{channel: enums.ChannelMessagingAPI, success: true}
	svc := newTestService(t, repo, &fakeUsers{user: user}, webhook, messaging)

	snapshot, err := svc.Trigger(context.Background(), user.ID, triggerInput())
	if err != nil {
		t.Fatalf("unexpected trigger error: %v", err)
	}
	if snapshot.Status != enums.SosStatusSent.String() {
		t.Fatalf("status = %s, want sent", snapshot.Status)
	}
	if len(snapshot.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(snapshot.Attempts))
	}
	if snapshot.RecipientsCount != 1 {
		t.Fatalf("recipientsCount = %d, want 1", snapshot.RecipientsCount)
	}
	if snapshot.DispatchedAt == nil {
		t.Fatal("expected dispatchedAt to be set")
	}
	if len(webhook.alerts) != 1 || len(messaging.alerts) != 1 {
		t.Fatal("expected both channels to receive the alert")
	}
	if webhook.alerts[0].Message != messaging.alerts[0].Message {
		t.Fatal("expected the same rendered message on both channels")
	}
}

func TestTrigger_CooldownRejects(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	repo.latest = &models.SosEvent{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-10 * time.Second),
	}
	svc := newTestService(t, repo, &fakeUsers{user: user},
		&recordingSender{channel: enums.ChannelWebhook, success: true})

	_, err := svc.Trigger(context.Background(), user.ID, triggerInput())
	if err == nil {
		t.Fatal("expected cooldown rejection")
	}
	appErr := pkgerrors.As(err)
	if appErr.Code() != pkgerrors.CodeCooldown {
		t.Fatalf("code = %s, want cooldown", appErr.Code())
	}
	details, ok := appErr.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", appErr.Details())
	}
	wait, ok := details["retryAfterSeconds"].(int)
	if !ok || wait < 19 || wait > 20 {
		t.Fatalf("retryAfterSeconds = %v, want ~20", details["retryAfterSeconds"])
	}
	if len(repo.events) != 0 {
		t.Fatal("expected no event created on rejection")
	}
}

func TestTrigger_ForceBypassesCooldown(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	repo.latest = &models.SosEvent{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	svc := newTestService(t, repo, &fakeUsers{user: user},
		&recordingSender{channel: enums.ChannelWebhook, success: true})

	input := triggerInput()
	input.Force = true
	snapshot, err := svc.Trigger(context.Background(), user.ID, input)
	if err != nil {
		t.Fatalf("unexpected trigger error: %v", err)
	}
	if snapshot.Status != enums.SosStatusSent.String() {
		t.Fatalf("status = %s, want sent", snapshot.Status)
	}
}

func TestTrigger_UnknownUser(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), &fakeUsers{},
		&recordingSender{channel: enums.ChannelWebhook, success: true})

	_, err := svc.Trigger(context.Background(), uuid.New(), triggerInput())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTrigger_AllChannelsFailStillReturnsSnapshot(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	svc := newTestService(t, repo, &fakeUsers{user: user},
		&recordingSender{channel: enums.ChannelWebhook, success: false},
		&recordingSender{channel: enums.ChannelMessagingAPI, success: false})

	snapshot, err := svc.Trigger(context.Background(), user.ID, triggerInput())
	if err != nil {
		t.Fatalf("delivery failure must not fail the request: %v", err)
	}
	if snapshot.Status != enums.SosStatusFailed.String() {
		t.Fatalf("status = %s, want failed", snapshot.Status)
	}
	for _, attempt := range snapshot.Attempts {
		if attempt.Error == nil {
			t.Errorf("expected error detail on failed attempt for %s", attempt.Channel)
		}
	}
}

func TestRetry_UsesStoredReasonAndLocation(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	reason := "original reason"
	event := &models.SosEvent{
		ID:        uuid.New(),
		UserID:    user.ID,
		Reason:    &reason,
		Status:    enums.SosStatusFailed,
		Location:  models.Location{Latitude: 43.25, Longitude: 76.95},
		CreatedAt: time.Now().Add(-time.Hour),
		Attempts: []models.SosAttempt{
			{ID: uuid.New(), Channel: enums.ChannelWebhook, Success: false, At: time.Now().Add(-time.Hour)},
			{ID: uuid.New(), Channel: enums.ChannelMessagingAPI, Success: false, At: time.Now().Add(-time.Hour)},
		},
	}
	repo.events[event.ID] = event

	webhook := &recordingSender{channel: enums.ChannelWebhook, success: true}
	messaging := &recordingSender{channel: enums.ChannelMessagingAPI, success: true}
	svc := newTestService(t, repo, &fakeUsers{user: user}, webhook, messaging)

	snapshot, err := svc.Retry(context.Background(), user.ID, event.ID)
	if err != nil {
		t.Fatalf("unexpected retry error: %v", err)
	}

	if webhook.alerts[0].Reason != reason {
		t.Fatalf("retry reason = %q, want stored reason", webhook.alerts[0].Reason)
	}
	if webhook.alerts[0].Latitude != 43.25 || webhook.alerts[0].Longitude != 76.95 {
		t.Fatal("retry must use the stored location")
	}

	// Old attempts stay, new round is appended, status is superseded.
	if len(snapshot.Attempts) != 4 {
		t.Fatalf("expected 4 attempts after retry, got %d", len(snapshot.Attempts))
	}
	if snapshot.Status != enums.SosStatusSent.String() {
		t.Fatalf("status = %s, want sent after recovered retry", snapshot.Status)
	}
	stored := repo.events[event.ID]
	if len(stored.Attempts) != 4 {
		t.Fatalf("expected 4 persisted attempts, got %d", len(stored.Attempts))
	}
	for _, attempt := range stored.Attempts[:2] {
		if attempt.Success {
			t.Fatal("prior failed attempts must remain unchanged")
		}
	}
}

func TestRetry_UnknownEvent(t *testing.T) {
	user := testUser()
	svc := newTestService(t, newFakeRepo(), &fakeUsers{user: user},
		&recordingSender{channel: enums.ChannelWebhook, success: true})

	_, err := svc.Retry(context.Background(), user.ID, uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRetry_ForeignEvent(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	foreign := &models.SosEvent{ID: uuid.New(), UserID: uuid.New(), CreatedAt: time.Now()}
	repo.events[foreign.ID] = foreign

	svc := newTestService(t, repo, &fakeUsers{user: user},
		&recordingSender{channel: enums.ChannelWebhook, success: true})

	_, err := svc.Retry(context.Background(), user.ID, foreign.ID)
	if err == nil {
		t.Fatal("expected not found for another user's event")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistory_ReturnsCappedSnapshots(t *testing.T) {
	repo := newFakeRepo()
	user := testUser()
	for i := 0; i < 25; i++ {
		repo.listed = append(repo.listed, models.SosEvent{
			ID:        uuid.New(),
			UserID:    user.ID,
			Status:    enums.SosStatusSent,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
	svc := newTestService(t, repo, &fakeUsers{user: user},
		&recordingSender{channel: enums.ChannelWebhook, success: true})

	items, err := svc.History(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("expected history capped at 20, got %d", len(items))
	}
}
