package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/arena/internal/model"
)

// ErrReportNotFound is returned by ReportRepository.Get for an unknown id.
var ErrReportNotFound = errors.New("battle report not found")

// ReportRepository stores played battles.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository создаёт новый repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

const reportColumns = `id, player_a, player_b, outcome, winner, turns, seed, log, created_at`

// Create inserts a report. Seed is stored bit-for-bit as BIGINT.
func (r *ReportRepository) Create(ctx context.Context, rep *model.BattleReport) error {
	log := rep.Log
	if log == nil {
		log = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO battle_reports (`+reportColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rep.ID, rep.PlayerA, rep.PlayerB, rep.Outcome, rep.Winner,
		rep.Turns, int64(rep.Seed), log, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting battle report %s: %w", rep.ID, err)
	}
	return nil
}

// Get returns the report with the given id.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*model.BattleReport, error) {
	rep, err := scanReport(r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM battle_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, ErrReportNotFound)
		}
		return nil, fmt.Errorf("querying battle report %s: %w", id, err)
	}
	return rep, nil
}

// ListByPlayer returns the latest reports involving player, newest first.
func (r *ReportRepository) ListByPlayer(ctx context.Context, player string, limit int) ([]*model.BattleReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportColumns+` FROM battle_reports
		 WHERE player_a = $1 OR player_b = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`, player, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports of %q: %w", player, err)
	}
	defer rows.Close()

	var out []*model.BattleReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report of %q: %w", player, err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports of %q: %w", player, err)
	}
	return out, nil
}

func scanReport(row pgx.Row) (*model.BattleReport, error) {
	var rep model.BattleReport
	var seed int64
	err := row.Scan(&rep.ID, &rep.PlayerA, &rep.PlayerB, &rep.Outcome, &rep.Winner,
		&rep.Turns, &seed, &rep.Log, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	rep.Seed = uint64(seed)
	return &rep, nil
}
