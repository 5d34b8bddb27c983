// Package duel plays matches between stored profiles on top of the
// combat resolver: match ids, deterministic seeds, report persistence
// and batch simulations.
package duel

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/game/stats"
	"github.com/udisondev/arena/internal/model"
)

// ErrSameProfile is returned when a profile is matched against itself.
var ErrSameProfile = errors.New("profile cannot duel itself")

// ProfileSource loads profiles by name (db.ProfileRepository, config.ProfileSet).
type ProfileSource interface {
	Load(ctx context.Context, name string) (*model.Profile, error)
}

// ReportSink stores played matches (db.ReportRepository).
type ReportSink interface {
	Create(ctx context.Context, r *model.BattleReport) error
}

// seedDomain separates match seeds from any other blake2b use of the id.
const seedDomain = "arena/duel-seed/v1"

// SeedFor derives the battle seed of a match id. Same id → same battle.
func SeedFor(matchID uuid.UUID) uint64 {
	h, err := blake2b.New256([]byte(seedDomain))
	if err != nil {
		// key shorter than 64 bytes never fails
		panic(fmt.Sprintf("duel: blake2b: %v", err))
	}
	h.Write(matchID[:])
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// Match is one played duel.
type Match struct {
	Report *model.BattleReport
	Result combat.Result
	A, B   *model.DetailedStatRecord
}

// Service plays duels between profiles.
// Safe for concurrent use: every match owns its Random.
type Service struct {
	profiles ProfileSource
	reports  ReportSink // nil → reports are not stored
	tables   *data.BalanceTables
	stats    stats.Config
	resolver *combat.Resolver

	newID func() uuid.UUID
	now   func() time.Time
}

// NewService creates a duel service. reports may be nil.
func NewService(profiles ProfileSource, reports ReportSink, tables *data.BalanceTables, statsCfg stats.Config, resolver *combat.Resolver) *Service {
	if tables == nil {
		tables = data.DefaultBalance()
	}
	return &Service{
		profiles: profiles,
		reports:  reports,
		tables:   tables,
		stats:    statsCfg,
		resolver: resolver,
		newID:    uuid.New,
		now:      time.Now,
	}
}

// Play runs a new match between profiles a and b under a fresh match id.
func (s *Service) Play(ctx context.Context, a, b string) (*Match, error) {
	return s.PlayWithID(ctx, s.newID(), a, b)
}

// PlayWithID runs (or replays) the match with the given id.
func (s *Service) PlayWithID(ctx context.Context, id uuid.UUID, a, b string) (*Match, error) {
	if a == b {
		return nil, fmt.Errorf("play %s vs %s: %w", a, b, ErrSameProfile)
	}

	recA, err := s.record(ctx, a)
	if err != nil {
		return nil, err
	}
	recB, err := s.record(ctx, b)
	if err != nil {
		return nil, err
	}

	seed := SeedFor(id)
	res, err := s.resolver.Resolve(recA, recB, combat.NewSeeded(seed))
	if err != nil {
		return nil, fmt.Errorf("resolve match %s: %w", id, err)
	}

	report := &model.BattleReport{
		ID:        id,
		PlayerA:   a,
		PlayerB:   b,
		Outcome:   res.Outcome.String(),
		Winner:    res.Winner,
		Turns:     res.Turns,
		Seed:      seed,
		Log:       res.Log,
		CreatedAt: s.now().UTC(),
	}

	if s.reports != nil {
		if err := s.reports.Create(ctx, report); err != nil {
			return nil, fmt.Errorf("store report %s: %w", id, err)
		}
	}

	slog.Info("duel finished",
		"matchID", id,
		"playerA", a,
		"playerB", b,
		"outcome", report.Outcome,
		"winner", report.Winner,
		"turns", report.Turns)

	return &Match{Report: report, Result: res, A: recA, B: recB}, nil
}

// Record loads a profile and derives its stat record.
func (s *Service) Record(ctx context.Context, name string) (*model.DetailedStatRecord, error) {
	return s.record(ctx, name)
}

func (s *Service) record(ctx context.Context, name string) (*model.DetailedStatRecord, error) {
	p, err := s.profiles.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", name, err)
	}
	rec, err := stats.DeriveProfile(p, s.tables, s.stats)
	if err != nil {
		return nil, fmt.Errorf("derive stats of %s: %w", name, err)
	}
	slog.Debug("derived stat record",
		"profile", name,
		"class", p.Class,
		"powerLevel", rec.PowerLevel,
		"rank", rec.Rank)
	return rec, nil
}
