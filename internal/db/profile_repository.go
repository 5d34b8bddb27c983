package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/arena/internal/model"
)


// ProfileRepository stores profiles and their per-class equipment.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository создаёт новый repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Load returns the profile with its whole loadout.
func (r *ProfileRepository) Load(ctx context.Context, name string) (*model.Profile, error) {
	p := &model.Profile{Name: name}
	var class string
	err := r.pool.QueryRow(ctx,
		`SELECT class, strength, agility, stamina, intelligence, charisma
		 FROM profiles WHERE name = $1`, name,
	).Scan(&class,
		&p.Attributes.Strength, &p.Attributes.Agility, &p.Attributes.Stamina,
		&p.Attributes.Intelligence, &p.Attributes.Charisma)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, model.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("querying profile %q: %w", name, err)
	}
	p.Class = model.ClassID(class)

	rows, err := r.pool.Query(ctx,
		`SELECT class, slot, tier, upgrades FROM equipment WHERE profile = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("querying equipment of %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var eqClass, slot, tier string
		var upgrades int
		if err := rows.Scan(&eqClass, &slot, &tier, &upgrades); err != nil {
			return nil, fmt.Errorf("scanning equipment of %q: %w", name, err)
		}
		t, err := model.ParseTier(tier)
		if err != nil {
			return nil, fmt.Errorf("equipment of %q slot %s: %w", name, slot, err)
		}
		if p.Loadout == nil {
			p.Loadout = make(model.Loadout)
		}
		cid := model.ClassID(eqClass)
		if p.Loadout[cid] == nil {
			p.Loadout[cid] = make(model.EquipmentSet)
		}
		p.Loadout[cid][model.Slot(slot)] = model.EquipmentInstance{Tier: t, Upgrades: upgrades}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating equipment of %q: %w", name, err)
	}

	return p, nil
}

// Save upserts the profile and replaces its loadout in a single transaction.
func (r *ProfileRepository) Save(ctx context.Context, p *model.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for profile %q: %w", p.Name, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "profile", p.Name, "error", err)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (name, class, strength, agility, stamina, intelligence, charisma, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (name) DO UPDATE SET
		   class = EXCLUDED.class,
		   strength = EXCLUDED.strength,
		   agility = EXCLUDED.agility,
		   stamina = EXCLUDED.stamina,
		   intelligence = EXCLUDED.intelligence,
		   charisma = EXCLUDED.charisma,
		   updated_at = now()`,
		p.Name, string(p.Class),
		p.Attributes.Strength, p.Attributes.Agility, p.Attributes.Stamina,
		p.Attributes.Intelligence, p.Attributes.Charisma,
	)
	if err != nil {
		return fmt.Errorf("upserting profile %q: %w", p.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM equipment WHERE profile = $1`, p.Name); err != nil {
		return fmt.Errorf("clearing equipment of %q: %w", p.Name, err)
	}

	var rows [][]any
	for class, set := range p.Loadout {
		for slot, inst := range set {
			rows = append(rows, []any{p.Name, string(class), string(slot), inst.Tier.String(), inst.Upgrades})
		}
	}
	if len(rows) > 0 {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"equipment"},
			[]string{"profile", "class", "slot", "tier", "upgrades"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copying equipment of %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for profile %q: %w", p.Name, err)
	}

	slog.Debug("profile saved", "profile", p.Name, "class", p.Class, "items", len(rows))
	return nil
}

// List returns all profile names in lexical order.
func (r *ProfileRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return names, nil
}

// Delete removes a profile and its equipment.
func (r *ProfileRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", name, model.ErrProfileNotFound)
	}
	return nil
}
