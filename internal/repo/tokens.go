package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/pkg/trm"
)

var tokenColumns = []string{"realm_id", "access_token", "refresh_token", "expires_at", "updated_at"}

func (r *postgresRepo) SaveToken(ctx context.Context, t entities.IntegrationToken) error {
	query, args := r.qb.Insert("integration_tokens").
		Columns("realm_id", "access_token", "refresh_token", "expires_at", "updated_at").
		Values(t.RealmID, t.AccessToken, t.RefreshToken, t.ExpiresAt, sq.Expr("now()")).
		Suffix(`ON CONFLICT (realm_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()`).
		MustSql()

	if _, err := trm.From(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// GetToken returns the token for realmID, or the most recently updated one when
// realmID is empty.
func (r *postgresRepo) GetToken(ctx context.Context, realmID string) (entities.IntegrationToken, error) {
	q := r.qb.Select(tokenColumns...).From("integration_tokens")
	if realmID != "" {
		q = q.Where(sq.Eq{"realm_id": realmID})
	} else {
		q = q.OrderBy("updated_at DESC").Limit(1)
	}
	query, args := q.MustSql()

	var token IntegrationToken
	err := trm.From(ctx, r.db).GetContext(ctx, &token, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.IntegrationToken{}, entities.ErrTokenNotFound
	}
	if err != nil {
		return entities.IntegrationToken{}, fmt.Errorf("failed to get token: %w", err)
	}
	return TokenToEntity(token), nil
}

func (r *postgresRepo) ExpiringTokens(ctx context.Context, before time.Time) ([]entities.IntegrationToken, error) {
	query, args := r.qb.Select(tokenColumns...).
		From("integration_tokens").
		Where(sq.LtOrEq{"expires_at": before}).
		MustSql()

	var tokens []IntegrationToken
	if err := trm.From(ctx, r.db).SelectContext(ctx, &tokens, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select expiring tokens: %w", err)
	}

	result := make([]entities.IntegrationToken, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, TokenToEntity(t))
	}
	return result, nil
}

// DeleteToken removes the token for realmID, or every stored token when realmID is empty.
func (r *postgresRepo) DeleteToken(ctx context.Context, realmID string) error {
	q := r.qb.Delete("integration_tokens")
	if realmID != "" {
		q = q.Where(sq.Eq{"realm_id": realmID})
	}
	query, args := q.MustSql()

	if _, err := trm.From(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
