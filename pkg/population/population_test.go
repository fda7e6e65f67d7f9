package population

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/kindred/pkg/errors"
)

func TestGeneratorDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewGenerator(7).Generate(ctx, "Ashford", 5)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	b, err := NewGenerator(7).Generate(ctx, "Ashford", 5)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	for i := range a {
		if a[i].String() != b[i].String() || a[i].ID != b[i].ID {
			t.Errorf("individual %d differs between identical seeds:\n%s\n---\n%s", i, a[i], b[i])
		}
	}
}

func TestGeneratorAttributes(t *testing.T) {
	people, err := NewGenerator(1).Generate(context.Background(), "  Reyes ", 20)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(people) != 20 {
		t.Fatalf("len = %d, want 20", len(people))
	}
	ids := make(map[string]bool)
	for _, p := range people {
		if p.Surname != "Reyes" {
			t.Errorf("Surname = %q, want %q", p.Surname, "Reyes")
		}
		if p.Age < minAge || p.Age >= maxAge {
			t.Errorf("Age = %d, want in [%d, %d)", p.Age, minAge, maxAge)
		}
		if len(p.Traits) != 2 || p.Traits[0] == p.Traits[1] {
			t.Errorf("Traits = %v, want two distinct traits", p.Traits)
		}
		for _, like := range p.Likes {
			if slices.Contains(p.Dislikes, like) {
				t.Errorf("%q is both liked and disliked", like)
			}
		}
		if ids[p.ID] {
			t.Errorf("duplicate ID %s", p.ID)
		}
		ids[p.ID] = true
	}
}

func TestGenerateInvalid(t *testing.T) {
	g := NewGenerator(1)
	if _, err := g.Generate(context.Background(), "", 3); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty surname error = %v, want INVALID_INPUT", err)
	}
	if _, err := g.Generate(context.Background(), "Osei", -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative count error = %v, want INVALID_INPUT", err)
	}
}

func TestGenerateZero(t *testing.T) {
	people, err := NewGenerator(1).Generate(context.Background(), "Osei", 0)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(people) != 0 {
		t.Errorf("len = %d, want 0", len(people))
	}
}

func TestParseSurnames(t *testing.T) {
	in := "# comment\nTanaka\n\n  Vargas  \nTanaka\n"
	names, err := ParseSurnames(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseSurnames() error: %v", err)
	}
	if want := []string{"Tanaka", "Vargas"}; !slices.Equal(names, want) {
		t.Errorf("ParseSurnames() = %v, want %v", names, want)
	}
}

func TestDefaultSurnames(t *testing.T) {
	names := DefaultSurnames()
	if len(names) < 2 {
		t.Fatalf("DefaultSurnames() has %d entries, want at least 2", len(names))
	}
	for _, n := range names {
		if strings.HasPrefix(n, "#") {
			t.Errorf("comment line leaked into surnames: %q", n)
		}
	}
}

func TestPickSurnames(t *testing.T) {
	pool := []string{"A", "B", "C"}
	for seed := uint64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		one, two, err := PickSurnames(rng, pool)
		if err != nil {
			t.Fatalf("PickSurnames() error: %v", err)
		}
		if one == two {
			t.Errorf("seed %d: both families named %q", seed, one)
		}
	}
	if !slices.Equal(pool, []string{"A", "B", "C"}) {
		t.Errorf("PickSurnames modified its input: %v", pool)
	}
}

func TestPickSurnamesTooFew(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if _, _, err := PickSurnames(rng, []string{"Solo"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("PickSurnames() error = %v, want INVALID_CONFIG", err)
	}
}
