package population

import (
	"bufio"
	_ "embed"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/matzehuels/kindred/pkg/errors"
)

//go:embed surnames.txt
var defaultSurnames string

// DefaultSurnames returns the built-in surname list.
func DefaultSurnames() []string {
	names, _ := ParseSurnames(strings.NewReader(defaultSurnames))
	return names
}

// ParseSurnames reads one surname per line. Blank lines and lines starting
// with '#' are skipped; duplicates are dropped keeping the first occurrence.
func ParseSurnames(r io.Reader) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		name := strings.TrimSpace(sc.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if err := errors.ValidateSurname(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "surname on line %d", line)
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read surnames")
	}
	return names, nil
}

// LoadSurnames reads a surname file. An empty path returns [DefaultSurnames].
func LoadSurnames(path string) ([]string, error) {
	if path == "" {
		return DefaultSurnames(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open surnames %s", path)
	}
	defer f.Close()
	return ParseSurnames(f)
}

// PickSurnames draws two different surnames from pool. The second draw is
// made after removing the first from the pool.
func PickSurnames(rng *rand.Rand, pool []string) (string, string, error) {
	if len(pool) < 2 {
		return "", "", errors.New(errors.ErrCodeInvalidConfig, "need at least 2 surnames, have %d", len(pool))
	}
	rest := make([]string, len(pool))
	copy(rest, pool)

	i := rng.IntN(len(rest))
	one := rest[i]
	rest = append(rest[:i], rest[i+1:]...)
	two := rest[rng.IntN(len(rest))]
	return one, two, nil
}
