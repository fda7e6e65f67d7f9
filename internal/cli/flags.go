package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kindred/pkg/setup"
)

// worldFlags are the flags shared by every command that builds a world.
// Explicitly set flags override values from the config file.
type worldFlags struct {
	config    string
	seed      uint64
	minSize   int
	maxSize   int
	oneMin    float64
	oneMax    float64
	twoMin    float64
	twoMax    float64
	solver    string
	templates string
	surnames  string
	refresh   bool
}

func (f *worldFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML options file (default ~/.config/kindred/kindred.toml if present)")
	fl.Uint64VarP(&f.seed, "seed", "s", setup.DefaultSeed, "random seed")
	fl.IntVar(&f.minSize, "min-size", setup.DefaultMinFamilySize, "minimum family size")
	fl.IntVar(&f.maxSize, "max-size", setup.DefaultMaxFamilySize, "family sizes are drawn below this bound")
	fl.Float64Var(&f.oneMin, "one-min-density", setup.DefaultMinDensity, "minimum edge density of family one")
	fl.Float64Var(&f.oneMax, "one-max-density", setup.DefaultMaxDensity, "maximum edge density of family one")
	fl.Float64Var(&f.twoMin, "two-min-density", setup.DefaultMinDensity, "minimum edge density of family two")
	fl.Float64Var(&f.twoMax, "two-max-density", setup.DefaultMaxDensity, "maximum edge density of family two")
	fl.StringVar(&f.solver, "solver", setup.DefaultSolver, "constraint solver: backtracker, bruteforce")
	fl.StringVar(&f.templates, "templates", "", "card template file or directory (default built-in)")
	fl.StringVar(&f.surnames, "surnames", "", "surname list file, one per line (default built-in)")
	fl.BoolVar(&f.refresh, "refresh", false, "re-solve families even when cached")
}

// options loads the config file, if any, and applies explicitly set flags.
func (f *worldFlags) options(cmd *cobra.Command) (setup.Options, error) {
	opts, err := f.loadConfig()
	if err != nil {
		return setup.Options{}, err
	}

	fl := cmd.Flags()
	if fl.Changed("seed") {
		opts.Seed = f.seed
	}
	if fl.Changed("min-size") {
		opts.MinFamilySize = f.minSize
	}
	if fl.Changed("max-size") {
		opts.MaxFamilySize = f.maxSize
	}
	if fl.Changed("one-min-density") {
		opts.FamilyOne.Min = f.oneMin
	}
	if fl.Changed("one-max-density") {
		opts.FamilyOne.Max = f.oneMax
	}
	if fl.Changed("two-min-density") {
		opts.FamilyTwo.Min = f.twoMin
	}
	if fl.Changed("two-max-density") {
		opts.FamilyTwo.Max = f.twoMax
	}
	if fl.Changed("solver") {
		opts.Solver = f.solver
	}
	if fl.Changed("templates") {
		opts.Templates = f.templates
	}
	if fl.Changed("surnames") {
		opts.Surnames = f.surnames
	}
	opts.Refresh = f.refresh
	return opts, nil
}

func (f *worldFlags) loadConfig() (setup.Options, error) {
	if f.config != "" {
		return setup.LoadOptions(f.config)
	}
	dir, err := configDir()
	if err != nil {
		return setup.Options{}, nil
	}
	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return setup.Options{}, nil
	}
	return setup.LoadOptions(path)
}
