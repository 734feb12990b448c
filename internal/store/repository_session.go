package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-poll-bot/internal/logger"
)

const (
	sessionsTable = "sessions"

	upsertSessionSuffix = "ON CONFLICT (user_id, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"
)

// sessionRepository is the SQL implementation of [SessionRepository] over
// the "sessions" table.
type sessionRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSessionRepository constructs a [SessionRepository] on db.
func NewSessionRepository(db *DB, log *logger.Logger) SessionRepository {
	log.Debug().Str("dialect", db.dialect).Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Load returns every preference stored for userID.
func (r *sessionRepository) Load(ctx context.Context, userID int64) (map[string]string, error) {
	query, args, err := r.db.builder.
		Select("name", "value").
		From(sessionsTable).
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var values map[string]string
	err = r.withRetry(ctx, "*sessionRepository.Load", func() error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		values = make(map[string]string)
		for rows.Next() {
			var name, value string
			if err = rows.Scan(&name, &value); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			values[name] = value
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// Save upserts one preference.
func (r *sessionRepository) Save(ctx context.Context, userID int64, key, value string) error {
	query, args, err := r.db.builder.
		Insert(sessionsTable).
		Columns("user_id", "name", "value", "updated_at").
		Values(userID, key, value, r.now()).
		Suffix(upsertSessionSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "*sessionRepository.Save", query, args)
}

// Remove deletes one preference.
func (r *sessionRepository) Remove(ctx context.Context, userID int64, key string) error {
	query, args, err := r.db.builder.
		Delete(sessionsTable).
		Where("user_id = ?", userID).
		Where("name = ?", key).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "*sessionRepository.Remove", query, args)
}

func (r *sessionRepository) exec(ctx context.Context, fn, query string, args []any) error {
	return r.withRetry(ctx, fn, func() error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
}

// withRetry runs op and repeats it once when the first failure is
// classified as retryable.
func (r *sessionRepository) withRetry(ctx context.Context, fn string, op func() error) error {
	err := op()
	if err == nil || ctx.Err() != nil {
		return err
	}
	if r.db.errorClassificator == nil || r.db.errorClassificator.Classify(err) != Retryable {
		r.logger.Err(err).Str("func", fn).Msg("database operation failed")
		return err
	}

	r.logger.Warn().Err(err).Str("func", fn).Msg("retrying database operation")
	if err = op(); err != nil {
		r.logger.Err(err).Str("func", fn).Msg("database operation failed after retry")
	}
	return err
}
