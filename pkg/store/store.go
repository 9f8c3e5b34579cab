package store

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"landing-waitlist/pkg/clients/postgres"
	"landing-waitlist/pkg/clients/supabase"
	"landing-waitlist/pkg/config"
	"landing-waitlist/pkg/models"
)

// Store persists signups. Insert must be a single atomic insert that fails with an
// error matching models.ErrAlreadyRegistered when the email exists.
type Store interface {
	Insert(ctx context.Context, record *models.SignupRecord) error
	Close() error
}

// Open builds the store handle for the configured URL scheme.
// It returns models.ErrServerNotConfigured when a credential is missing.
func Open(cfg *config.Config) (Store, error) {
	if !cfg.StoreConfigured() {
		return nil, models.ErrServerNotConfigured
	}

	u, err := url.Parse(cfg.StoreURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse store url")
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		log.Info().Str("section", "store").Str("backend", "supabase").Str("host", u.Host).Msg("Using Supabase REST store")
		return supabase.NewClient(cfg.StoreURL, cfg.StoreKey, cfg.StoreTable, nil), nil
	case "postgres", "postgresql":
		dsn, err := postgres.DSN(cfg.StoreURL, cfg.StoreKey)
		if err != nil {
			return nil, err
		}
		log.Info().Str("section", "store").Str("backend", "postgres").Str("host", u.Host).Msg("Using Postgres store")
		return postgres.Open(dsn, cfg.StoreTable)
	default:
		return nil, errors.Errorf("unsupported store url scheme %q", u.Scheme)
	}
}
