package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"landing-waitlist/pkg/clients/supabase"
	"landing-waitlist/pkg/metrics"
	"landing-waitlist/pkg/models"
	"landing-waitlist/pkg/store"
	"landing-waitlist/pkg/utils"
)

// Messages returned to the visitor for rejected input
const (
	MsgEmailRequired  = "Email is required"
	MsgInvalidEmail   = "Invalid email format"
	MsgInvalidRequest = "Invalid request"
	MsgStoreFailure   = "Could not save signup"
)

// ValidationError is malformed or missing input the visitor can fix
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError is any persistence failure other than a duplicate email
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return "store: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Message is the description the store itself reported. Transport and
// driver failures get MsgStoreFailure so addresses never reach the visitor.
func (e *StoreError) Message() string {
	var apiErr *supabase.APIError
	if errors.As(e.Err, &apiErr) && apiErr.Code != "" {
		return apiErr.Message
	}
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}
	return MsgStoreFailure
}

// WaitlistSubmissionService defines the interface for handling waitlist signups
type WaitlistSubmissionService interface {
	ProcessSignup(ctx context.Context, req models.JoinRequest, client models.ClientInfo) error
}

type waitlistSubmissionServiceImpl struct {
	store   store.Store
	metrics *metrics.Metrics
}

// NewWaitlistSubmissionService creates a new submission service.
// A nil store makes every valid signup fail with models.ErrServerNotConfigured.
func NewWaitlistSubmissionService(s store.Store, m *metrics.Metrics) WaitlistSubmissionService {
	return &waitlistSubmissionServiceImpl{
		store:   s,
		metrics: m,
	}
}

// Validate checks the required email field
func Validate(req models.JoinRequest) error {
	if req.Email == "" {
		return &ValidationError{Message: MsgEmailRequired}
	}
	if !models.ValidEmail(req.Email) {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	return nil
}

// ProcessSignup validates, normalizes and inserts one signup
func (s *waitlistSubmissionServiceImpl) ProcessSignup(ctx context.Context, req models.JoinRequest, client models.ClientInfo) error {
	if err := Validate(req); err != nil {
		s.metrics.Signup(metrics.OutcomeInvalid)
		return err
	}

	emailHash := utils.HashEmail(req.Email)
	logger := log.With().Str("email_hash", emailHash).Logger()

	if s.store == nil {
		s.metrics.Signup(metrics.OutcomeNotConfigured)
		logger.Error().Str("kind", "configuration").Msg("Store credentials missing, signup dropped")
		return models.ErrServerNotConfigured
	}

	record := models.NewSignupRecord(req, client)

	start := time.Now()
	err := s.store.Insert(ctx, record)
	s.metrics.ObserveInsert(time.Since(start).Seconds())

	switch {
	case err == nil:
		s.metrics.Signup(metrics.OutcomeOK)
		logger.Info().Str("client_ip", record.ClientIP).Msg("Signup stored")
		return nil
	case errors.Is(err, models.ErrAlreadyRegistered):
		s.metrics.Signup(metrics.OutcomeConflict)
		logger.Info().Msg("Email already registered")
		return models.ErrAlreadyRegistered
	default:
		s.metrics.Signup(metrics.OutcomeStoreError)
		logger.Error().Err(err).Str("kind", "store").Msg("Error storing signup")
		return &StoreError{Err: err}
	}
}
