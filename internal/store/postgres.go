package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// DB is the subset of *pgxpool.Pool used by Postgres.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
}

// Postgres stores samples as rows keyed by (object_id, seq).
// Save only inserts the tail that is not stored yet.
type Postgres struct {
	db     DB
	logger *slog.Logger
}

// NewPostgres wraps a pool whose schema has been migrated.
func NewPostgres(db DB, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, logger: logger}
}

// Ping checks the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *Postgres) Load(ctx context.Context, objectID string) (model.Trajectory, error) {
	rows, err := p.db.Query(ctx, `
		SELECT latitude, longitude, ts, speed
		FROM trajectory_samples
		WHERE object_id = $1
		ORDER BY seq
	`, objectID)
	if err != nil {
		return model.Trajectory{}, fmt.Errorf("query trajectory %s: %w", objectID, err)
	}

	samples, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PositionSample, error) {
		var s model.PositionSample
		err := row.Scan(&s.Latitude, &s.Longitude, &s.Timestamp, &s.Speed)
		return s, err
	})
	if err != nil {
		return model.Trajectory{}, fmt.Errorf("scan trajectory %s: %w", objectID, err)
	}
	if len(samples) == 0 {
		return model.Trajectory{}, nil
	}
	return model.Trajectory{Samples: samples}, nil
}

func (p *Postgres) Save(ctx context.Context, objectID string, t model.Trajectory) error {
	var stored int
	if err := p.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM trajectory_samples WHERE object_id = $1
	`, objectID).Scan(&stored); err != nil {
		return fmt.Errorf("count trajectory %s: %w", objectID, err)
	}
	if stored >= t.Len() {
		return nil
	}

	tail := t.Samples[stored:]
	conflicts, err := p.batchInsert(ctx, objectID, stored, tail)
	if err != nil {
		return fmt.Errorf("insert trajectory %s: %w", objectID, err)
	}
	if conflicts > 0 {
		p.logger.Warn("trajectory rows already present",
			"object", objectID,
			"conflicts", conflicts,
		)
	}
	return nil
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (p *Postgres) batchInsert(ctx context.Context, objectID string, firstSeq int, samples []model.PositionSample) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for i, s := range samples {
		batch.Queue(`
			INSERT INTO trajectory_samples (object_id, seq, latitude, longitude, ts, speed)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (object_id, seq) DO NOTHING
		`, objectID, firstSeq+i, s.Latitude, s.Longitude, s.Timestamp, s.Speed)
	}

	results := p.db.SendBatch(ctx, batch)
	defer results.Close()

	for range samples {
		var ct pgconn.CommandTag
		ct, err = results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}
	return conflicts, nil
}
