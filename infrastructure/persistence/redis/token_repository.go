package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/halfmoon/halfmoon/application/port/outbound"
	"github.com/halfmoon/halfmoon/domain/autherr"
	"github.com/halfmoon/halfmoon/domain/entity"
)

// tokenRepository keeps one hash per record plus secondary indexes so every
// TokenStore lookup stays a point read:
//
//	auth:token:<id>      hash of the record fields
//	auth:access:<tok>    -> id
//	auth:refresh:<tok>   -> id
//	auth:subject:<sub>   set of ids
//	auth:tokens          set of all ids (sweep enumeration)
//
// Records carry no Redis TTL: the sweeper owns retirement so both backends
// share the either-side-expired semantics.
type tokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) outbound.TokenStore {
	return &tokenRepository{client: client}
}

const (
	recordKeyPrefix  = "auth:token:"
	accessKeyPrefix  = "auth:access:"
	refreshKeyPrefix = "auth:refresh:"
	subjectKeyPrefix = "auth:subject:"
	allTokensKey     = "auth:tokens"
)

func (r *tokenRepository) Save(ctx context.Context, record *entity.IssuedToken) (*entity.IssuedToken, error) {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, recordKeyPrefix+record.ID, map[string]interface{}{
		"id":                 record.ID,
		"access_token":       record.AccessToken,
		"refresh_token":      record.RefreshToken,
		"subject":            record.Subject,
		"access_expires_at":  record.AccessExpiresAt.Format(time.RFC3339Nano),
		"refresh_expires_at": record.RefreshExpiresAt.Format(time.RFC3339Nano),
	})
	pipe.Set(ctx, accessKeyPrefix+record.AccessToken, record.ID, 0)
	pipe.Set(ctx, refreshKeyPrefix+record.RefreshToken, record.ID, 0)
	pipe.SAdd(ctx, subjectKeyPrefix+record.Subject, record.ID)
	pipe.SAdd(ctx, allTokensKey, record.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storeErr("failed to save issued token", err)
	}
	return record, nil
}

func (r *tokenRepository) FindByAccessToken(ctx context.Context, accessToken string) (*entity.IssuedToken, error) {
	return r.findByIndex(ctx, accessKeyPrefix+accessToken)
}

func (r *tokenRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.IssuedToken, error) {
	return r.findByIndex(ctx, refreshKeyPrefix+refreshToken)
}

func (r *tokenRepository) findByIndex(ctx context.Context, indexKey string) (*entity.IssuedToken, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("failed to read token index", err)
	}
	return r.load(ctx, id)
}

func (r *tokenRepository) FindBySubject(ctx context.Context, subject string) (*entity.IssuedToken, error) {
	ids, err := r.client.SMembers(ctx, subjectKeyPrefix+subject).Result()
	if err != nil {
		return nil, storeErr("failed to read subject index", err)
	}
	for _, id := range ids {
		record, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}
	return nil, nil
}

func (r *tokenRepository) FindAll(ctx context.Context) ([]*entity.IssuedToken, error) {
	ids, err := r.client.SMembers(ctx, allTokensKey).Result()
	if err != nil {
		return nil, storeErr("failed to enumerate issued tokens", err)
	}

	var records []*entity.IssuedToken
	for _, id := range ids {
		record, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *tokenRepository) Delete(ctx context.Context, id string) error {
	record, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, recordKeyPrefix+id)
	pipe.Del(ctx, accessKeyPrefix+record.AccessToken)
	pipe.Del(ctx, refreshKeyPrefix+record.RefreshToken)
	pipe.SRem(ctx, subjectKeyPrefix+record.Subject, id)
	pipe.SRem(ctx, allTokensKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("failed to delete issued token", err)
	}
	return nil
}

func (r *tokenRepository) DeleteBySubject(ctx context.Context, subject string) error {
	ids, err := r.client.SMembers(ctx, subjectKeyPrefix+subject).Result()
	if err != nil {
		return storeErr("failed to read subject index", err)
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *tokenRepository) load(ctx context.Context, id string) (*entity.IssuedToken, error) {
	fields, err := r.client.HGetAll(ctx, recordKeyPrefix+id).Result()
	if err != nil {
		return nil, storeErr("failed to load issued token", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	accessExpiresAt, err := parseExpiry(fields["access_expires_at"])
	if err != nil {
		return nil, storeErr("corrupt access expiry", err)
	}
	refreshExpiresAt, err := parseExpiry(fields["refresh_expires_at"])
	if err != nil {
		return nil, storeErr("corrupt refresh expiry", err)
	}

	return &entity.IssuedToken{
		ID:               fields["id"],
		AccessToken:      fields["access_token"],
		RefreshToken:     fields["refresh_token"],
		Subject:          fields["subject"],
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func parseExpiry(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func storeErr(msg string, err error) error {
	return fmt.Errorf("%w: %s: %s", autherr.ErrStoreUnavailable, msg, err)
}
