package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurlan2209/undeme/pkg/db/models"
	pkgerrors "github.com/nurlan2209/undeme/pkg/errors"
	"github.com/nurlan2209/undeme/pkg/logger"
	"github.com/nurlan2209/undeme/pkg/security"
)

// MaxEmergencyContacts caps how many people one user can register.
const MaxEmergencyContacts = 5

// Service covers profile and emergency contact management.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
	ListContacts(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error)
	AddContact(ctx context.Context, userID uuid.UUID, input ContactInput) (*ContactDTO, error)
	UpdateContact(ctx context.Context, userID, contactID uuid.UUID, input ContactInput) (*ContactDTO, error)
	RemoveContact(ctx context.Context, userID, contactID uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the profile service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("users: repository is required")
	}
	if logg == nil {
		return nil, errors.New("users: logger is required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Settings != nil {
		updates["settings_sos_vibration"] = input.Settings.SosVibration
		updates["settings_auto_location"] = input.Settings.AutoLocation
		updates["settings_emergency_notifications"] = input.Settings.EmergencyNotifications
		updates["settings_sound_alerts"] = input.Settings.SoundAlerts
	}
	if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}

	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")
	}

	if err := s.repo.SoftDelete(ctx, userID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting account")
	}
	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "account soft deleted")
	return nil
}

func (s *service) ListContacts(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}
	contacts, err := s.repo.ListContacts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing contacts")
	}
	items := make([]ContactDTO, 0, len(contacts))
	for _, contact := range contacts {
		items = append(items, ContactFromModel(contact))
	}
	return items, nil
}

func (s *service) AddContact(ctx context.Context, userID uuid.UUID, input ContactInput) (*ContactDTO, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountContacts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting contacts")
	}
	if count >= MaxEmergencyContacts {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "emergency contact limit reached").
			WithDetails(map[string]any{"limit": MaxEmergencyContacts})
	}

	contact := &models.EmergencyContact{
		UserID:   userID,
		Name:     input.Name,
		Phone:    input.Phone,
		Relation: input.Relation,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating contact")
	}

	dto := ContactFromModel(*contact)
	return &dto, nil
}

func (s *service) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, input ContactInput) (*ContactDTO, error) {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":     input.Name,
		"phone":    input.Phone,
		"relation": input.Relation,
	}
	affected, err := s.repo.UpdateContact(ctx, userID, contactID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating contact")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
	}

	contact, err := s.repo.FindContact(ctx, userID, contactID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading contact")
	}
	dto := ContactFromModel(*contact)
	return &dto, nil
}

func (s *service) RemoveContact(ctx context.Context, userID, contactID uuid.UUID) error {
	if _, err := s.loadActive(ctx, userID); err != nil {
		return err
	}

	affected, err := s.repo.DeleteContact(ctx, userID, contactID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting contact")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
	}
	return nil
}

func (s *service) loadActive(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}
