// Package setup builds a playable world: two solved families, their merged
// graph, the bound population and the full card deck.
//
// # Usage
//
//	runner := setup.NewRunner(cache, nil, logger)
//	world, err := runner.Build(ctx, setup.Options{Seed: 7})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sel := world.NewSelector(selector.Options{})
//	card, err := sel.Advance(ctx, cards.NullChoice())
//
// Options can also be read from a TOML file with [LoadOptions]:
//
//	seed = 7
//	min_family_size = 3
//	max_family_size = 7
//
//	[family_one]
//	min_density = 0.3
//	max_density = 0.7
package setup

import (
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/sat"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMinFamilySize and DefaultMaxFamilySize bound family sizes; a size
	// is drawn from [min, max).
	DefaultMinFamilySize = 3
	DefaultMaxFamilySize = 7

	// DefaultMinDensity and DefaultMaxDensity are feasible with connectivity
	// for every default family size.
	DefaultMinDensity = 0.3
	DefaultMaxDensity = 0.7

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultMinCompatibility and DefaultMaxCompatibility bound the starting
	// compatibility between the families, drawn from [min, max).
	DefaultMinCompatibility = 5
	DefaultMaxCompatibility = 20

	// MaxFamilySize caps family sizes so that solving stays interactive.
	MaxFamilySize = 24
)

// Solver names.
const (
	SolverBacktracker = "backtracker"
	SolverBruteForce  = "bruteforce"
)

// DefaultSolver is the solver used when none is configured.
const DefaultSolver = SolverBacktracker

// ValidSolvers is the set of supported solver names.
var ValidSolvers = map[string]bool{
	SolverBacktracker: true,
	SolverBruteForce:  true,
}

// =============================================================================
// Options - World Configuration
// =============================================================================

// Density bounds the fraction of possible edges a family graph may use.
type Density struct {
	Min float64 `json:"min_density" toml:"min_density" bson:"min_density"`
	Max float64 `json:"max_density" toml:"max_density" bson:"max_density"`
}

// Options contains all configuration for building a world.
// This struct supports TOML for config files and JSON for API requests.
type Options struct {
	MinFamilySize int     `json:"min_family_size,omitempty" toml:"min_family_size" bson:"min_family_size"`
	MaxFamilySize int     `json:"max_family_size,omitempty" toml:"max_family_size" bson:"max_family_size"`
	FamilyOne     Density `json:"family_one" toml:"family_one" bson:"family_one"`
	FamilyTwo     Density `json:"family_two" toml:"family_two" bson:"family_two"`
	Seed          uint64  `json:"seed,omitempty" toml:"seed" bson:"seed"`
	Solver        string  `json:"solver,omitempty" toml:"solver" bson:"solver"`

	MinCompatibility int `json:"min_compatibility,omitempty" toml:"min_compatibility" bson:"min_compatibility"`
	MaxCompatibility int `json:"max_compatibility,omitempty" toml:"max_compatibility" bson:"max_compatibility"`

	Templates string `json:"templates,omitempty" toml:"templates" bson:"templates,omitempty"` // file or directory, empty for built-in
	Surnames  string `json:"surnames,omitempty" toml:"surnames" bson:"surnames,omitempty"`    // file, empty for built-in

	// Refresh skips cached family assignments.
	Refresh bool `json:"refresh,omitempty" toml:"-" bson:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" bson:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.MinFamilySize == 0 {
		o.MinFamilySize = DefaultMinFamilySize
	}
	if o.MaxFamilySize == 0 {
		o.MaxFamilySize = max(DefaultMaxFamilySize, o.MinFamilySize)
	}
	o.FamilyOne.setDefaults()
	o.FamilyTwo.setDefaults()
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Solver == "" {
		o.Solver = DefaultSolver
	}
	if o.MinCompatibility == 0 && o.MaxCompatibility == 0 {
		o.MinCompatibility = DefaultMinCompatibility
		o.MaxCompatibility = DefaultMaxCompatibility
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (d *Density) setDefaults() {
	if d.Min == 0 && d.Max == 0 {
		d.Min = DefaultMinDensity
		d.Max = DefaultMaxDensity
	}
}

// Validate checks field ranges. It does not check that the density bounds
// admit a connected graph; family.Build reports that before solving.
func (o *Options) Validate() error {
	if o.MinFamilySize < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_family_size must be at least 1, got %d", o.MinFamilySize)
	}
	if o.MaxFamilySize < o.MinFamilySize {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max_family_size (%d) must not be below min_family_size (%d)", o.MaxFamilySize, o.MinFamilySize)
	}
	if o.MaxFamilySize > MaxFamilySize {
		return errors.New(errors.ErrCodeInvalidConfig, "max_family_size must be at most %d, got %d", MaxFamilySize, o.MaxFamilySize)
	}
	if err := o.FamilyOne.validate("family_one"); err != nil {
		return err
	}
	if err := o.FamilyTwo.validate("family_two"); err != nil {
		return err
	}
	if !ValidSolvers[o.Solver] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid solver: %q (must be one of: backtracker, bruteforce)", o.Solver)
	}
	if o.Solver == SolverBruteForce && o.MaxFamilySize > bruteForceMaxNodes {
		return errors.New(errors.ErrCodeInvalidConfig,
			"solver bruteforce supports families of at most %d, max_family_size is %d", bruteForceMaxNodes, o.MaxFamilySize)
	}
	if o.MaxCompatibility < o.MinCompatibility {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max_compatibility (%d) must not be below min_compatibility (%d)", o.MaxCompatibility, o.MinCompatibility)
	}
	return nil
}

func (d Density) validate(table string) error {
	if math.IsNaN(d.Min) || math.IsNaN(d.Max) || d.Min < 0 || d.Max > 1 || d.Min > d.Max {
		return errors.New(errors.ErrCodeInvalidConfig,
			"[%s] densities must satisfy 0 <= min_density <= max_density <= 1, got [%g, %g]", table, d.Min, d.Max)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults then validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// bruteForceMaxNodes is the largest family whose edge count fits sat.MaxBruteForceVars.
var bruteForceMaxNodes = func() int {
	n := 1
	for (n+1)*n/2 <= sat.MaxBruteForceVars {
		n++
	}
	return n
}()

// NewSolver returns the solver named by o.Solver, seeded for one family.
func (o *Options) NewSolver(seed uint64) sat.Solver {
	if o.Solver == SolverBruteForce {
		return sat.BruteForce{}
	}
	return sat.Backtracker{Seed: seed}
}

// LoadOptions reads options from a TOML file. Unknown keys are rejected.
func LoadOptions(path string) (Options, error) {
	var o Options
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return o, nil
}
