package store

import (
	"context"
	_ "embed"

	"cart-service/internal/apperr"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "failed to apply schema")
	}
	return nil
}
