package sos

import (
	"context"
	"errors"
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

// UserDirectory resolves the triggering user together with their emergency
// contacts.
type UserDirectory interface {
	FindActive(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Service is the alert orchestrator: it gates triggers, runs dispatch
// rounds and folds the results into the persisted event record.
type Service interface {
	Trigger(ctx context.Context, userID uuid.UUID, input TriggerInput) (*EventDTO, error)
	Retry(ctx context.Context, userID, eventID uuid.UUID) (*EventDTO, error)
	History(ctx context.Context, userID uuid.UUID) ([]EventDTO, error)
}

type service struct {
	repo       Repository
	users      UserDirectory
	dispatcher *Coordinator
	cfg        config.SosConfig
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the orchestrator. All collaborators are required.
func NewService(repo Repository, users UserDirectory, dispatcher *Coordinator, cfg config.SosConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("sos: repository is required")
	}
	if users == nil {
		return nil, errors.New("sos: user directory is required")
	}
	if dispatcher == nil {
		return nil, errors.New("sos: dispatcher is required")
	}
	if logg == nil {
		return nil, errors.New("sos: logger is required")
	}
	return &service{
		repo:       repo,
		users:      users,
		dispatcher: dispatcher,
		cfg:        cfg,
		logg:       logg,
		now:        time.Now,
	}, nil
}

func (s *service) Trigger(ctx context.Context, userID uuid.UUID, input TriggerInput) (*EventDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.LatestForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading latest sos event")
	}
	var lastAt *time.Time
	if latest != nil {
		lastAt = &latest.CreatedAt
	}

	admission := CheckAdmission(s.now(), lastAt, s.cfg.Cooldown(), input.Force)
	if !admission.Allowed {
		return nil, pkgerrors.New(pkgerrors.CodeCooldown, "sos cooldown active").
			WithDetails(map[string]any{"retryAfterSeconds": admission.RetryAfterSeconds})
	}

	var reason *string
	if input.Reason != "" {
		reason = &input.Reason
	}
	event := &models.SosEvent{
		UserID: userID,
		Reason: reason,
		Status: enums.SosStatusQueued,
		Location: models.Location{
			Latitude:   input.Location.Latitude,
			Longitude:  input.Location.Longitude,
			Accuracy:   input.Location.Accuracy,
			Provider:   input.Location.Provider,
			CapturedAt: input.Location.CapturedAt,
		},
		// Snapshot taken at trigger time; never recomputed on retry.
		RecipientsCount: len(user.EmergencyContacts),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating sos event")
	}

	ctx = s.logg.WithEventID(ctx, event.ID.String())
	s.logg.Info(ctx, "sos event admitted")

	return s.runRound(ctx, "trigger", user, event)
}

func (s *service) Retry(ctx context.Context, userID, eventID uuid.UUID) (*EventDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.FindByID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sos event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sos event")
	}

	ctx = s.logg.WithEventID(ctx, event.ID.String())
	s.logg.Info(ctx, "sos retry requested")

	return s.runRound(ctx, "retry", user, event)
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]EventDTO, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	limit := s.cfg.HistoryLimit
	if limit <= 0 {
		limit = 20
	}
	events, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sos events")
	}

	items := make([]EventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, eventToDTO(event))
	}
	return items, nil
}

// runRound executes one dispatch round for the event and persists the
// appended attempts plus the superseding rollup status. Retry rounds reuse
// the event's stored reason and location, never caller-supplied values.
func (s *service) runRound(ctx context.Context, kind string, user *models.User, event *models.SosEvent) (*EventDTO, error) {
	round := s.dispatcher.Dispatch(ctx, kind, s.buildAlert(user, event))

	attempts := make([]models.SosAttempt, 0, len(round.Outcomes))
	for _, outcome := range round.Outcomes {
		var detail *string
		if outcome.Error != "" {
			errText := outcome.Error
			detail = &errText
		}
		attempts = append(attempts, models.SosAttempt{
			EventID: event.ID,
			Channel: outcome.Channel,
			Success: outcome.Success,
			Error:   detail,
			At:      round.DispatchedAt,
		})
	}

	if err := s.repo.AppendRound(ctx, event.ID, attempts, round.Status, round.DispatchedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting dispatch round")
	}

	event.Status = round.Status
	dispatchedAt := round.DispatchedAt
	event.DispatchedAt = &dispatchedAt
	event.Attempts = append(event.Attempts, attempts...)

	s.logg.Info(s.logg.WithField(ctx, "status", event.Status.String()), "dispatch round completed")

	dto := eventToDTO(*event)
	return &dto, nil
}

func (s *service) buildAlert(user *models.User, event *models.SosEvent) notify.Alert {
	recipients := make([]notify.Recipient, 0, len(user.EmergencyContacts))
	for _, contact := range user.EmergencyContacts {
		recipients = append(recipients, notify.Recipient{Name: contact.Name, Phone: contact.Phone})
	}

	reason := ""
	if event.Reason != nil {
		reason = *event.Reason
	}
	occurredAt := event.CreatedAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	return notify.Alert{
		EventID:    event.ID,
		UserID:     user.ID,
		FullName:   user.FullName,
		Phone:      user.Phone,
		Reason:     reason,
		Latitude:   event.Location.Latitude,
		Longitude:  event.Location.Longitude,
		OccurredAt: occurredAt,
		Recipients: recipients,
		Message: RenderMessage(
			user.FullName,
			user.Phone,
			event.Location.Latitude,
			event.Location.Longitude,
			reason,
			occurredAt,
		),
	}
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}
