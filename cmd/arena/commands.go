package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/db"
	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/game/duel"
	"github.com/udisondev/arena/internal/game/enchant"
	"github.com/udisondev/arena/internal/model"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func (e *env) profiles(path string) (*config.ProfileSet, string, error) {
	if path == "" {
		path = e.cfg.ProfilesPath
	}
	set, err := config.LoadProfiles(path)
	if err != nil {
		return nil, path, fmt.Errorf("loading profiles: %w", err)
	}
	return set, path, nil
}

func (e *env) service(src duel.ProfileSource, sink duel.ReportSink) *duel.Service {
	return duel.NewService(src, sink, e.tables, e.cfg.Stats(), e.resolver)
}

// duel -a alice -b bob [-id uuid]
func (e *env) duel(ctx context.Context, args []string) error {
	fs := newFlagSet("duel")
	a := fs.String("a", "", "profile of side A")
	b := fs.String("b", "", "profile of side B")
	id := fs.String("id", "", "match id to replay (default: random)")
	profilesPath := fs.String("profiles", "", "profiles file")
	rolls := fs.Bool("rolls", false, "print every sampled roll")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *a == "" || *b == "" {
		return fmt.Errorf("%w: duel needs -a and -b", errUsage)
	}

	set, _, err := e.profiles(*profilesPath)
	if err != nil {
		return err
	}
	matchID, err := parseMatchID(*id)
	if err != nil {
		return err
	}

	m, err := e.service(set, nil).PlayWithID(ctx, matchID, *a, *b)
	if err != nil {
		return err
	}
	printMatch(e.out, m, *rolls)
	return nil
}

// sim -a alice -b bob -runs 10000 | sim -all
func (e *env) sim(ctx context.Context, args []string) error {
	fs := newFlagSet("sim")
	a := fs.String("a", "", "profile of side A")
	b := fs.String("b", "", "profile of side B")
	all := fs.Bool("all", false, "round robin over every profile pair")
	runs := fs.Int("runs", 1000, "battles per pair")
	workers := fs.Int("workers", 0, "concurrent battles (0 = GOMAXPROCS)")
	seed := fs.Uint64("seed", 1, "base seed; run i uses seed+i")
	profilesPath := fs.String("profiles", "", "profiles file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	set, _, err := e.profiles(*profilesPath)
	if err != nil {
		return err
	}

	var pairs [][2]string
	switch {
	case *all:
		names := set.Names()
		for i := range names {
			for j := i + 1; j < len(names); j++ {
				pairs = append(pairs, [2]string{names[i], names[j]})
			}
		}
	case *a != "" && *b != "":
		pairs = append(pairs, [2]string{*a, *b})
	default:
		return fmt.Errorf("%w: sim needs -a and -b, or -all", errUsage)
	}

	svc := e.service(set, nil)
	opts := duel.BatchOptions{Runs: *runs, Workers: *workers, Seed: *seed}
	summaries := make([]duel.Summary, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for i, pair := range pairs {
		g.Go(func() error {
			recA, err := svc.Record(gctx, pair[0])
			if err != nil {
				return err
			}
			recB, err := svc.Record(gctx, pair[1])
			if err != nil {
				return err
			}
			sum, err := duel.RunBatch(gctx, e.resolver, recA, recB, opts)
			if err != nil {
				return fmt.Errorf("%s vs %s: %w", pair[0], pair[1], err)
			}
			summaries[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, pair := range pairs {
		s := summaries[i]
		fmt.Fprintf(e.out, "%s vs %s: runs=%d winsA=%d (%.1f%%) winsB=%d (%.1f%%) draws=%d firstA=%d avgTurns=%.2f\n",
			pair[0], pair[1], s.Runs,
			s.WinsA, s.WinRateA()*100, s.WinsB, s.WinRateB()*100,
			s.Draws, s.FirstA, s.AvgTurns)
	}
	return nil
}

// stats -profile alice
func (e *env) stats(ctx context.Context, args []string) error {
	fs := newFlagSet("stats")
	name := fs.String("profile", "", "profile name")
	profilesPath := fs.String("profiles", "", "profiles file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: stats needs -profile", errUsage)
	}
	set, _, err := e.profiles(*profilesPath)
	if err != nil {
		return err
	}
	rec, err := e.service(set, nil).Record(ctx, *name)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(e.out)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding stat record: %w", err)
	}
	return enc.Close()
}

// profileStore is where upgrade reads and writes a profile.
type profileStore interface {
	Load(ctx context.Context, name string) (*model.Profile, error)
	Save(ctx context.Context, p *model.Profile) error
}

// upgrade -profile alice -slot weapon [-class warrior] [-times 1] [-db]
func (e *env) upgrade(ctx context.Context, args []string) error {
	fs := newFlagSet("upgrade")
	name := fs.String("profile", "", "profile name")
	slot := fs.String("slot", "", "equipment slot")
	class := fs.String("class", "", "class loadout (default: active class)")
	times := fs.Int("times", 1, "number of attempts")
	useDB := fs.Bool("db", false, "use the database instead of the profiles file")
	profilesPath := fs.String("profiles", "", "profiles file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *name == "" || *slot == "" || *times < 1 {
		return fmt.Errorf("%w: upgrade needs -profile, -slot and -times >= 1", errUsage)
	}

	var (
		store profileStore
		flush = func() error { return nil }
	)
	if *useDB {
		database, err := db.New(ctx, e.cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer database.Close()
		store = database.Profiles()
	} else {
		set, path, err := e.profiles(*profilesPath)
		if err != nil {
			return err
		}
		store = set
		flush = func() error { return set.WriteFile(path) }
	}

	p, err := store.Load(ctx, *name)
	if err != nil {
		return err
	}
	cid := p.Class
	if *class != "" {
		cid = model.ClassID(*class)
	}
	set := p.Loadout.For(cid)
	inst, ok := set[model.Slot(*slot)]
	if !ok {
		return fmt.Errorf("profile %s has no %s item for class %s", *name, *slot, cid)
	}

	rng := combat.Global()
	for i := range *times {
		res, err := enchant.TryUpgrade(inst, e.tables, rng)
		if err != nil {
			return err
		}
		status := "failed"
		switch {
		case res.Promoted:
			status = "promoted"
		case res.Success:
			status = "upgraded"
		}
		fmt.Fprintf(e.out, "#%d %s: %s+%d -> %s+%d (chance %.0f%%)\n",
			i+1, status, res.Before.Tier, res.Before.Upgrades, res.After.Tier, res.After.Upgrades, res.Chance*100)
		inst = res.After
	}

	set[model.Slot(*slot)] = inst
	if err := store.Save(ctx, p); err != nil {
		return err
	}
	return flush()
}

// match -a alice -b bob [-id uuid] | match -report uuid
func (e *env) match(ctx context.Context, args []string) error {
	fs := newFlagSet("match")
	a := fs.String("a", "", "profile of side A")
	b := fs.String("b", "", "profile of side B")
	id := fs.String("id", "", "match id (default: random)")
	show := fs.String("report", "", "print a stored report instead of playing")
	history := fs.String("history", "", "list recent reports of a profile")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	database, err := db.New(ctx, e.cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer database.Close()
	reports := database.Reports()

	switch {
	case *show != "":
		rid, err := uuid.Parse(*show)
		if err != nil {
			return fmt.Errorf("%w: bad report id: %v", errUsage, err)
		}
		rep, err := reports.Get(ctx, rid)
		if err != nil {
			return err
		}
		printReport(e.out, rep)
		fmt.Fprintln(e.out, strings.Join(rep.Log, "\n"))
		return nil
	case *history != "":
		list, err := reports.ListByPlayer(ctx, *history, 20)
		if err != nil {
			return err
		}
		for _, rep := range list {
			printReport(e.out, rep)
		}
		return nil
	case *a == "" || *b == "":
		return fmt.Errorf("%w: match needs -a and -b", errUsage)
	}

	matchID, err := parseMatchID(*id)
	if err != nil {
		return err
	}
	m, err := e.service(database.Profiles(), reports).PlayWithID(ctx, matchID, *a, *b)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return fmt.Errorf("%w (import profiles first)", err)
		}
		return err
	}
	printMatch(e.out, m, false)
	return nil
}

// import [-profiles path]: copies the profiles file into the database.
func (e *env) importProfiles(ctx context.Context, args []string) error {
	fs := newFlagSet("import")
	profilesPath := fs.String("profiles", "", "profiles file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	set, path, err := e.profiles(*profilesPath)
	if err != nil {
		return err
	}

	database, err := db.New(ctx, e.cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer database.Close()
	repo := database.Profiles()

	for _, name := range set.Names() {
		p, err := set.Load(ctx, name)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.out, "imported %d profiles from %s\n", len(set.Names()), path)
	return nil
}

// migrate [up|down|status|version|reset]
func (e *env) migrate(ctx context.Context, args []string) error {
	command := "up"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	return db.Migrate(ctx, e.cfg.Database.DSN(), command, args...)
}

func parseMatchID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad match id: %v", errUsage, err)
	}
	return id, nil
}

func printMatch(w io.Writer, m *duel.Match, rolls bool) {
	fmt.Fprintln(w, m.Result.Transcript())
	if rolls {
		for _, r := range m.Result.Rolls {
			fmt.Fprintf(w, "roll turn=%d extra=%d kind=%s actor=%s sample=%.4f chance=%.4f ok=%t\n",
				r.Turn, r.Extra, r.Kind, r.Actor, r.Sample, r.Chance, r.Success)
		}
	}
	printReport(w, m.Report)
}

func printReport(w io.Writer, rep *model.BattleReport) {
	fmt.Fprintf(w, "match %s: %s vs %s → %s (winner %s, %d turns, seed %d, %s)\n",
		rep.ID, rep.PlayerA, rep.PlayerB, rep.Outcome, rep.Winner, rep.Turns, rep.Seed,
		rep.CreatedAt.Format("2006-01-02 15:04:05"))
}
