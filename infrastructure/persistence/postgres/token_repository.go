package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/halfmoon/halfmoon/application/port/outbound"
	"github.com/halfmoon/halfmoon/domain/autherr"
	"github.com/halfmoon/halfmoon/domain/entity"
)

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) outbound.TokenStore {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Save(ctx context.Context, record *entity.IssuedToken) (*entity.IssuedToken, error) {
	query := `
		INSERT INTO issued_tokens (id, access_token, refresh_token, subject, access_expires_at, refresh_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.AccessToken,
		record.RefreshToken,
		record.Subject,
		record.AccessExpiresAt,
		record.RefreshExpiresAt,
	)
	if err != nil {
		return nil, storeErr("failed to save issued token", err)
	}

	return record, nil
}

func (r *tokenRepository) FindByAccessToken(ctx context.Context, accessToken string) (*entity.IssuedToken, error) {
	return r.findOne(ctx, "access_token", accessToken)
}

func (r *tokenRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.IssuedToken, error) {
	return r.findOne(ctx, "refresh_token", refreshToken)
}

func (r *tokenRepository) FindBySubject(ctx context.Context, subject string) (*entity.IssuedToken, error) {
	return r.findOne(ctx, "subject", subject)
}

func (r *tokenRepository) findOne(ctx context.Context, column, value string) (*entity.IssuedToken, error) {
	query := fmt.Sprintf(`
		SELECT id, access_token, refresh_token, subject, access_expires_at, refresh_expires_at
		FROM issued_tokens
		WHERE %s = $1
		LIMIT 1
	`, column)

	var record entity.IssuedToken
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&record.ID,
		&record.AccessToken,
		&record.RefreshToken,
		&record.Subject,
		&record.AccessExpiresAt,
		&record.RefreshExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("failed to find issued token", err)
	}

	return &record, nil
}

func (r *tokenRepository) FindAll(ctx context.Context) ([]*entity.IssuedToken, error) {
	query := `
		SELECT id, access_token, refresh_token, subject, access_expires_at, refresh_expires_at
		FROM issued_tokens
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("failed to list issued tokens", err)
	}
	defer rows.Close()

	var records []*entity.IssuedToken
	for rows.Next() {
		var record entity.IssuedToken
		if err := rows.Scan(
			&record.ID,
			&record.AccessToken,
			&record.RefreshToken,
			&record.Subject,
			&record.AccessExpiresAt,
			&record.RefreshExpiresAt,
		); err != nil {
			return nil, storeErr("failed to scan issued token", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate issued tokens", err)
	}

	return records, nil
}

func (r *tokenRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM issued_tokens WHERE id = $1`, id); err != nil {
		return storeErr("failed to delete issued token", err)
	}
	return nil
}

func (r *tokenRepository) DeleteBySubject(ctx context.Context, subject string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM issued_tokens WHERE subject = $1`, subject); err != nil {
		return storeErr("failed to delete issued tokens by subject", err)
	}
	return nil
}

func storeErr(msg string, err error) error {
	return fmt.Errorf("%w: %s: %s", autherr.ErrStoreUnavailable, msg, err)
}
