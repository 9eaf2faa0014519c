package ai

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/db/models"
	dbtypes "github.com/nurlan2209/undeme/pkg/db/types"
	"github.com/nurlan2209/undeme/pkg/enums"
	pkgerrors "github.com/nurlan2209/undeme/pkg/errors"
	"github.com/nurlan2209/undeme/pkg/logger"
)

// ChatInput is the inbound assistant request.
type ChatInput struct {
	Message string            `json:"message" validate:"required,max=1200"`
	Context enums.ChatContext `json:"context"`
}

// ChatResponse is returned from one assistant exchange.
type ChatResponse struct {
	Message      string            `json:"message"`
	Context      enums.ChatContext `json:"context"`
	Disclaimer   string            `json:"disclaimer"`
	SafetyFlags  []string          `json:"safetyFlags"`
	Model        *string           `json:"model"`
	UsedFallback bool              `json:"usedFallback"`
}

// HistoryItem is one stored exchange.
type HistoryItem struct {
	ID           uuid.UUID         `json:"id"`
	Message      string            `json:"message"`
	Response     string            `json:"response"`
	Context      enums.ChatContext `json:"context"`
	SafetyFlags  []string          `json:"safetyFlags"`
	Model        *string           `json:"model"`
	UsedFallback bool              `json:"usedFallback"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// UserChecker confirms the caller still has an active account.
type UserChecker interface {
	FindActive(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Service is the safety assistant: it tries the configured model candidates
// in order and falls back to the local templates when none answers.
type Service interface {
	Chat(ctx context.Context, userID uuid.UUID, input ChatInput) (*ChatResponse, error)
	History(ctx context.Context, userID uuid.UUID) ([]HistoryItem, error)
}

type service struct {
	repo   *Repository
	users  UserChecker
	client ModelClient
	cfg    config.AIConfig
	logg   *logger.Logger
}

// NewService wires the assistant. client may be nil when no API key is
// configured; every answer then comes from the local templates.
func NewService(repo *Repository, users UserChecker, client ModelClient, cfg config.AIConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("ai: repository is required")
	}
	if users == nil {
		return nil, errors.New("ai: user checker is required")
	}
	if logg == nil {
		return nil, errors.New("ai: logger is required")
	}
	return &service{repo: repo, users: users, client: client, cfg: cfg, logg: logg}, nil
}

func (s *service) Chat(ctx context.Context, userID uuid.UUID, input ChatInput) (*ChatResponse, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if input.Context != "" && !input.Context.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown chat context")
	}

	safe := GenerateSafeResponse(input.Message, input.Context)

	modelText, usedModel := s.tryModels(ctx, input.Message, safe)
	finalText := ComposeFinalResponse(modelText, safe.Text, safe.SafetyFlags)
	usedFallback := modelText == ""

	logRow := &models.AiChatLog{
		UserID:          userID,
		Message:         input.Message,
		Context:         safe.Context,
		Response:        finalText,
		Model:           usedModel,
		UsedFallback:    usedFallback,
		SafetyFlags:     dbtypes.StringList(safe.SafetyFlags),
		DisclaimerShown: true,
	}
	if err := s.repo.Create(ctx, logRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing chat log")
	}

	return &ChatResponse{
		Message:      finalText,
		Context:      safe.Context,
		Disclaimer:   Disclaimer,
		SafetyFlags:  safe.SafetyFlags,
		Model:        usedModel,
		UsedFallback: usedFallback,
	}, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]HistoryItem, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	limit := s.cfg.HistoryLimit
	if limit <= 0 {
		limit = 50
	}
	logs, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing chat logs")
	}

	items := make([]HistoryItem, 0, len(logs))
	for _, row := range logs {
		items = append(items, HistoryItem{
			ID:           row.ID,
			Message:      row.Message,
			Response:     row.Response,
			Context:      row.Context,
			SafetyFlags:  []string(row.SafetyFlags),
			Model:        row.Model,
			UsedFallback: row.UsedFallback,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

// tryModels walks the candidate list in order and returns the first answer.
// Every candidate failing is not an error; the caller falls back to the
// local templates.
func (s *service) tryModels(ctx context.Context, message string, safe SafeResult) (string, *string) {
	if s.client == nil || s.cfg.APIKey == "" {
		return "", nil
	}

	prompt := BuildPrompt(message, safe.Context, safe.SafetyFlags)
	for _, model := range s.cfg.ModelCandidates() {
		callCtx := ctx
		var cancel context.CancelFunc
		if s.cfg.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		}
		text, err := s.client.Complete(callCtx, model, prompt)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "model", model), "model candidate failed")
			continue
		}
		usedModel := model
		return text, &usedModel
	}
	return "", nil
}

func (s *service) checkUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.FindActive(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return nil
}
