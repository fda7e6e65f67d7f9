package setup

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kindred/pkg/cache"
	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/family"
	"github.com/matzehuels/kindred/pkg/observability"
	"github.com/matzehuels/kindred/pkg/population"
	"github.com/matzehuels/kindred/pkg/sat"
)

// Runner builds worlds, consulting a cache for solved family graphs.
// Both CLI and API use it so that caching logic lives in one place.
//
// The Runner is stateless except for its collaborators; multiple goroutines
// can build worlds with the same Runner concurrently as long as Source is
// nil or safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Source generates individuals. Nil uses a population.Generator seeded
	// from the world seed.
	Source population.Source
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Build creates a world from opts: it draws family sizes and surnames,
// solves both families, merges them, binds generated individuals and
// enumerates the card deck over the combined population.
//
// The same options always produce the same world, cached or not.
func (r *Runner) Build(ctx context.Context, opts Options) (*World, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	registry, err := cards.Load(opts.Templates)
	if err != nil {
		return nil, err
	}
	pool, err := population.LoadSurnames(opts.Surnames)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	sizeOne := drawSize(rng, opts.MinFamilySize, opts.MaxFamilySize)
	sizeTwo := drawSize(rng, opts.MinFamilySize, opts.MaxFamilySize)
	surnameOne, surnameTwo, err := population.PickSurnames(rng, pool)
	if err != nil {
		return nil, err
	}
	compatibility := opts.MinCompatibility
	if opts.MaxCompatibility > opts.MinCompatibility {
		compatibility += rng.IntN(opts.MaxCompatibility - opts.MinCompatibility)
	}

	one, err := r.Family(ctx, opts, FamilySpec{Nodes: sizeOne, Surname: surnameOne, Density: opts.FamilyOne, Seed: opts.Seed + 1})
	if err != nil {
		return nil, err
	}
	two, err := r.Family(ctx, opts, FamilySpec{Nodes: sizeTwo, Surname: surnameTwo, Density: opts.FamilyTwo, Seed: opts.Seed + 2})
	if err != nil {
		return nil, err
	}
	combined, err := family.Merge(one, two)
	if err != nil {
		return nil, err
	}

	src := r.Source
	if src == nil {
		src = population.NewGenerator(opts.Seed)
	}
	peopleOne, err := src.Generate(ctx, surnameOne, sizeOne)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "generate %s family", surnameOne)
	}
	peopleTwo, err := src.Generate(ctx, surnameTwo, sizeTwo)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "generate %s family", surnameTwo)
	}
	if _, err := one.Bind(peopleOne); err != nil {
		return nil, err
	}
	if _, err := two.Bind(peopleTwo); err != nil {
		return nil, err
	}
	everyone := append(append(make([]*population.Individual, 0, sizeOne+sizeTwo), peopleOne...), peopleTwo...)
	if _, err := combined.Bind(everyone); err != nil {
		return nil, err
	}

	start := time.Now()
	deck := cards.Enumerate(registry.All(), everyone)
	elapsed := time.Since(start)
	observability.Setup().OnEnumerateComplete(ctx, registry.Len(), len(deck), elapsed)
	opts.Logger.Infof("generated %d cards", len(deck))

	return &World{
		ID:            worldID(opts, registry, pool),
		Seed:          opts.Seed,
		Options:       opts,
		One:           one,
		Two:           two,
		Combined:      combined,
		Templates:     registry,
		Deck:          deck,
		Compatibility: compatibility,
	}, nil
}

// FamilySpec describes one family graph to solve.
type FamilySpec struct {
	Nodes   int
	Surname string
	Density Density
	Seed    uint64
}

// Family solves one family graph, reusing a cached assignment when one is
// available and still satisfies the problem. Cache failures fall back to
// solving.
func (r *Runner) Family(ctx context.Context, opts Options, spec FamilySpec) (*family.Graph, error) {
	key := r.Keyer.FamilyKey(cache.FamilyKeyOpts{
		Nodes:      spec.Nodes,
		MinDensity: spec.Density.Min,
		MaxDensity: spec.Density.Max,
		Seed:       spec.Seed,
		Solver:     opts.Solver,
	})

	if !opts.Refresh {
		if g, ok := r.cachedFamily(ctx, key, spec); ok {
			return g, nil
		}
	}

	observability.Setup().OnSolveStart(ctx, spec.Surname, spec.Nodes)
	start := time.Now()
	g, err := family.New(ctx, spec.Nodes, spec.Surname, spec.Density.Min, spec.Density.Max, family.Options{
		Solver: opts.NewSolver(spec.Seed),
		Logger: opts.Logger,
	})
	edges := 0
	if g != nil {
		edges = g.PresentCount()
	}
	observability.Setup().OnSolveComplete(ctx, spec.Surname, edges, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if a, err := g.Assignment(); err == nil {
		data := []byte(a.String())
		if err := r.Cache.Set(ctx, key, data, cache.TTLFamily); err != nil {
			r.Logger.Warn("failed to cache family", "family", spec.Surname, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "family", len(data))
		}
	}
	return g, nil
}

func (r *Runner) cachedFamily(ctx context.Context, key string, spec FamilySpec) (*family.Graph, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache lookup failed", "family", spec.Surname, "error", err)
	}
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "family")
		return nil, false
	}
	a, err := sat.ParseAssignment(string(data))
	if err != nil {
		r.Logger.Debug("discarding corrupt cache entry", "family", spec.Surname, "error", err)
		return nil, false
	}
	g, err := family.Restore(spec.Nodes, spec.Surname, spec.Density.Min, spec.Density.Max, a)
	if err != nil {
		r.Logger.Debug("discarding stale cache entry", "family", spec.Surname, "error", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "family")
	r.Logger.Debug("family from cache", "family", spec.Surname, "edges", g.PresentCount())
	return g, true
}

// drawSize returns a size in [lo, hi), or lo when the range is empty.
func drawSize(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}

// worldID derives a stable identifier from the options that shape a world
// and from the loaded templates and surnames, so that two builds of the same
// world share an ID and an edited template or surname file yields a new one.
func worldID(o Options, registry *cards.Registry, pool []string) uuid.UUID {
	content, _ := json.Marshal([]any{registry.All(), pool})
	name := fmt.Sprintf("%d|%d-%d|%g-%g|%g-%g|%s|%d-%d|%s|%s|%s",
		o.Seed, o.MinFamilySize, o.MaxFamilySize,
		o.FamilyOne.Min, o.FamilyOne.Max, o.FamilyTwo.Min, o.FamilyTwo.Max,
		o.Solver, o.MinCompatibility, o.MaxCompatibility, o.Templates, o.Surnames,
		cache.Hash(content))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}
