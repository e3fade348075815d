package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatlinkhq/chatlink/internal/db"
	"github.com/chatlinkhq/chatlink/internal/db/sqlc"
)

const maxCodeRetries = 5

// Service commits binding transitions against the registration store. Every
// transition runs in a single transaction with row locks on the records it
// touches, so concurrent attempts on the same record serialize and a
// rejected transition never writes.
type Service struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
	secret  string
	logger  *slog.Logger
}

// NewService creates a registration service. The secret keys the
// provisioning-time code digest and must match across restarts.
func NewService(log *slog.Logger, pool *pgxpool.Pool, queries *sqlc.Queries, secret string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:    pool,
		queries: queries,
		secret:  secret,
		logger:  log.With(slog.String("service", "registration")),
	}
}

// Bind runs the full pipeline for a bind attempt: normalize the raw code,
// match it against the store by digest, check eligibility, and commit the
// binding transition. Format rejection happens before any store access.
func (s *Service) Bind(ctx context.Context, channelID, rawCode string) (BindOutcome, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return BindOutcome{}, errors.New("channel id is required")
	}
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return BindOutcome{}, err
	}
	if s.queries == nil || s.pool == nil {
		return BindOutcome{}, errors.New("registration service not configured")
	}
	hash := HashCode(code, s.secret)

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return BindOutcome{}, fmt.Errorf("begin bind tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.queries.WithTx(tx)

	row, err := qtx.GetRegistrationByCodeHashForUpdate(ctx, hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BindOutcome{}, ErrCodeNotFound
		}
		return BindOutcome{}, fmt.Errorf("lock registration: %w", err)
	}
	reg := toRegistration(row)
	now := time.Now().UTC()

	if err := CheckEligibility(reg, now); err != nil {
		return BindOutcome{}, err
	}

	// A chat holds at most one binding; a claim on a second record is
	// rejected before anything mutates.
	held, err := qtx.GetRegistrationByBoundChannelForUpdate(ctx, pgtype.Text{String: channelID, Valid: true})
	if err == nil && held.ID != row.ID {
		return BindOutcome{}, ErrChannelBusy
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return BindOutcome{}, fmt.Errorf("lock chat binding: %w", err)
	}

	updated, rebound, err := Bind(reg, channelID, now)
	if err != nil {
		return BindOutcome{}, err
	}
	if !rebound {
		if _, err := qtx.SetRegistrationBinding(ctx, sqlc.SetRegistrationBindingParams{
			ID:             row.ID,
			BoundChannelID: pgtype.Text{String: channelID, Valid: true},
			BoundAt:        pgtype.Timestamptz{Time: updated.BoundAt, Valid: true},
		}); err != nil {
			if db.IsUniqueViolation(err) {
				return BindOutcome{}, ErrChannelBusy
			}
			return BindOutcome{}, fmt.Errorf("set binding: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return BindOutcome{}, fmt.Errorf("commit bind tx: %w", err)
	}

	s.logger.Info("chat bound",
		slog.String("registration_id", updated.ID),
		slog.String("channel_id", channelID),
		slog.Bool("rebound", rebound),
	)
	return BindOutcome{Registration: updated, Rebound: rebound}, nil
}

// Unbind releases the binding held by channelID. Only the current holder
// reaches the clear; a chat with no binding gets ErrNotBound.
func (s *Service) Unbind(ctx context.Context, channelID string) (Registration, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return Registration{}, errors.New("channel id is required")
	}
	if s.queries == nil || s.pool == nil {
		return Registration{}, errors.New("registration service not configured")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Registration{}, fmt.Errorf("begin unbind tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.queries.WithTx(tx)

	row, err := qtx.GetRegistrationByBoundChannelForUpdate(ctx, pgtype.Text{String: channelID, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, ErrNotBound
		}
		return Registration{}, fmt.Errorf("lock chat binding: %w", err)
	}
	updated, err := Unbind(toRegistration(row), channelID)
	if err != nil {
		return Registration{}, err
	}
	cleared, err := qtx.ClearRegistrationBinding(ctx, row.ID)
	if err != nil {
		return Registration{}, fmt.Errorf("clear binding: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Registration{}, fmt.Errorf("commit unbind tx: %w", err)
	}

	s.logger.Info("chat unbound",
		slog.String("registration_id", updated.ID),
		slog.String("channel_id", channelID),
	)
	return toRegistration(cleared), nil
}

// GetByChannel returns the registration currently bound to channelID, or
// ErrNotBound. Read-only; used for link token re-issuance.
func (s *Service) GetByChannel(ctx context.Context, channelID string) (Registration, error) {
	if s.queries == nil {
		return Registration{}, errors.New("registration queries not configured")
	}
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return Registration{}, errors.New("channel id is required")
	}
	row, err := s.queries.GetRegistrationByBoundChannel(ctx, pgtype.Text{String: channelID, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, ErrNotBound
		}
		return Registration{}, err
	}
	return toRegistration(row), nil
}

// CreateRequest describes a registration to provision. When Code is empty
// a fresh one is generated. Zero ValidFrom/ValidUntil leave that side of
// the validity window open.
type CreateRequest struct {
	Label      string
	Code       string
	Status     Status
	ValidFrom  time.Time
	ValidUntil time.Time
}

// Create provisions a new registration record and returns it together with
// the plaintext code. The code is not recoverable afterwards; only its
// digest is stored.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Registration, string, error) {
	if s.queries == nil {
		return Registration{}, "", errors.New("registration queries not configured")
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return Registration{}, "", err
	}

	if strings.TrimSpace(req.Code) != "" {
		code, err := NormalizeCode(req.Code)
		if err != nil {
			return Registration{}, "", err
		}
		row, err := s.queries.CreateRegistration(ctx, s.createParams(req, code, status))
		if err != nil {
			if db.IsUniqueViolation(err) {
				return Registration{}, "", ErrCodeTaken
			}
			return Registration{}, "", fmt.Errorf("create registration: %w", err)
		}
		return toRegistration(row), code, nil
	}

	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code := GenerateCode()
		row, err := s.queries.CreateRegistration(ctx, s.createParams(req, code, status))
		if err == nil {
			return toRegistration(row), code, nil
		}
		if db.IsUniqueViolation(err) {
			continue
		}
		return Registration{}, "", fmt.Errorf("create registration: %w", err)
	}
	return Registration{}, "", errors.New("create registration: code collision after retries")
}

// Get returns a registration by id.
func (s *Service) Get(ctx context.Context, id string) (Registration, error) {
	if s.queries == nil {
		return Registration{}, errors.New("registration queries not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Registration{}, err
	}
	row, err := s.queries.GetRegistrationByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, ErrNotFound
		}
		return Registration{}, err
	}
	return toRegistration(row), nil
}

// List returns all registrations, newest first.
func (s *Service) List(ctx context.Context) ([]Registration, error) {
	if s.queries == nil {
		return nil, errors.New("registration queries not configured")
	}
	rows, err := s.queries.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Registration, 0, len(rows))
	for _, row := range rows {
		items = append(items, toRegistration(row))
	}
	return items, nil
}

// SetStatus updates the provisioning-controlled status field.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (Registration, error) {
	if s.queries == nil {
		return Registration{}, errors.New("registration queries not configured")
	}
	normalized, err := ParseStatus(string(status))
	if err != nil {
		return Registration{}, err
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Registration{}, err
	}
	row, err := s.queries.UpdateRegistrationStatus(ctx, sqlc.UpdateRegistrationStatusParams{
		ID:     pgID,
		Status: string(normalized),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, ErrNotFound
		}
		return Registration{}, err
	}
	return toRegistration(row), nil
}

// SetValidity updates the validity window. Zero times clear that bound.
func (s *Service) SetValidity(ctx context.Context, id string, validFrom, validUntil time.Time) (Registration, error) {
	if s.queries == nil {
		return Registration{}, errors.New("registration queries not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Registration{}, err
	}
	row, err := s.queries.UpdateRegistrationValidity(ctx, sqlc.UpdateRegistrationValidityParams{
		ID:         pgID,
		ValidFrom:  db.DateToPg(validFrom),
		ValidUntil: db.DateToPg(validUntil),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, ErrNotFound
		}
		return Registration{}, err
	}
	return toRegistration(row), nil
}

// Delete removes a registration record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.queries == nil {
		return errors.New("registration queries not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return err
	}
	return s.queries.DeleteRegistration(ctx, pgID)
}

// ForceUnbind clears a binding by registration id regardless of holder.
// Operator override for lost chats; the chat-initiated path is Unbind.
func (s *Service) ForceUnbind(ctx context.Context, id string) (Registration, error) {
	if s.queries == nil {
		return Registration{}, errors.New("registration queries not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Registration{}, err
	}
	row, err := s.queries.ClearRegistrationBinding(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registration{}, ErrNotFound
		}
		return Registration{}, err
	}
	s.logger.Info("binding cleared by operator", slog.String("registration_id", id))
	return toRegistration(row), nil
}

func (s *Service) createParams(req CreateRequest, code string, status Status) sqlc.CreateRegistrationParams {
	return sqlc.CreateRegistrationParams{
		Label:      strings.TrimSpace(req.Label),
		CodeHash:   HashCode(code, s.secret),
		Status:     string(status),
		ValidFrom:  db.DateToPg(req.ValidFrom),
		ValidUntil: db.DateToPg(req.ValidUntil),
	}
}

func toRegistration(row sqlc.Registration) Registration {
	return Registration{
		ID:             row.ID.String(),
		Label:          row.Label,
		CodeHash:       row.CodeHash,
		Status:         Status(row.Status),
		ValidFrom:      db.DateFromPg(row.ValidFrom),
		ValidUntil:     db.DateFromPg(row.ValidUntil),
		BoundChannelID: db.TextToString(row.BoundChannelID),
		BoundAt:        db.TimeFromPg(row.BoundAt),
		CreatedAt:      db.TimeFromPg(row.CreatedAt),
		UpdatedAt:      db.TimeFromPg(row.UpdatedAt),
	}
}
