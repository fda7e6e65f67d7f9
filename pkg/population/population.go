// Package population generates the individuals bound to family graph nodes.
//
// An [Individual] is opaque to the graph code: binding only cares about its
// position in the generated sequence. The descriptive attributes (name, age,
// alignment, traits, occupation, likes and dislikes) exist for presentation.
//
// A [Source] produces individuals in a fixed order for a requested count.
// [Generator] is the built-in seeded source; the same seed always produces
// the same people in the same order.
package population

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/kindred/pkg/errors"
)

// Individual is one generated person.
type Individual struct {
	ID         string   `json:"id" bson:"id"`
	FirstName  string   `json:"first_name" bson:"first_name"`
	Surname    string   `json:"surname" bson:"surname"`
	Age        int      `json:"age" bson:"age"`
	Alignment  string   `json:"alignment" bson:"alignment"`
	Traits     []string `json:"traits" bson:"traits"`
	Occupation string   `json:"occupation" bson:"occupation"`
	Likes      []string `json:"likes,omitempty" bson:"likes,omitempty"`
	Dislikes   []string `json:"dislikes,omitempty" bson:"dislikes,omitempty"`
}

// FullName returns "First Surname".
func (i *Individual) FullName() string {
	return i.FirstName + " " + i.Surname
}

// String returns a multi-line summary.
func (i *Individual) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", i.FullName())
	fmt.Fprintf(&b, "Age: %d\n", i.Age)
	fmt.Fprintf(&b, "Alignment: %s\n", i.Alignment)
	fmt.Fprintf(&b, "Traits: %s\n", strings.Join(i.Traits, ", "))
	fmt.Fprintf(&b, "Occupation: %s", i.Occupation)
	if len(i.Likes) > 0 {
		fmt.Fprintf(&b, "\nLikes: %s", strings.Join(i.Likes, ", "))
	}
	if len(i.Dislikes) > 0 {
		fmt.Fprintf(&b, "\nDislikes: %s", strings.Join(i.Dislikes, ", "))
	}
	return b.String()
}

// Source produces an ordered sequence of count individuals sharing a surname.
// The order is significant: the i-th individual is bound to node i.
type Source interface {
	Generate(ctx context.Context, surname string, count int) ([]*Individual, error)
}

// Generator is a seeded [Source]. It is safe for concurrent use, although
// concurrent callers observe a nondeterministic interleaving.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	ids *rand.ChaCha8
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed uint64) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
		ids: rand.NewChaCha8(key),
	}
}

// Generate implements [Source].
func (g *Generator) Generate(ctx context.Context, surname string, count int) ([]*Individual, error) {
	if err := errors.ValidateSurname(surname); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative population size %d", count)
	}
	surname = strings.TrimSpace(surname)

	g.mu.Lock()
	defer g.mu.Unlock()

	people := make([]*Individual, 0, count)
	for range count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := g.next(surname)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}

func (g *Generator) next(surname string) (*Individual, error) {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate id")
	}
	picked := g.distinct(interests, 4)
	return &Individual{
		ID:         id.String(),
		FirstName:  firstNames[g.rng.IntN(len(firstNames))],
		Surname:    surname,
		Age:        minAge + g.rng.IntN(maxAge-minAge),
		Alignment:  alignments[g.rng.IntN(len(alignments))],
		Traits:     g.distinct(traits, 2),
		Occupation: occupations[g.rng.IntN(len(occupations))],
		Likes:      picked[:2],
		Dislikes:   picked[2:],
	}, nil
}

// distinct draws n different entries from pool.
func (g *Generator) distinct(pool []string, n int) []string {
	out := make([]string, n)
	for i, j := range g.rng.Perm(len(pool))[:n] {
		out[i] = pool[j]
	}
	return out
}

var _ Source = (*Generator)(nil)
