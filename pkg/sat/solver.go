package sat

import (
	"context"
	"errors"
	"math/rand/v2"
)

// Solver finds an assignment satisfying every constraint of a problem.
// Implementations return ErrUnsatisfiable (possibly wrapped) when none exists.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Assignment, error)
}

// Default search parameters for [Backtracker].
const (
	DefaultRestarts   = 4
	DefaultStepBudget = 4096
)

// errBudget aborts one restart of the backtracker.
var errBudget = errors.New("step budget exhausted")

// Backtracker is a randomized depth-first solver.
//
// Variables are decided in a seeded random order. After every decision each
// affected constraint is probed with both values of its undecided variables;
// a value that would violate the constraint forces the other one.
//
// The first Restarts attempts are bounded by a step budget that doubles per
// attempt, and try true first with probability 1/2, 1/4, 1/8 and so on. The
// final attempt is unbounded and always tries false first: under a
// [Connected] constraint this deletes non-bridge links until only the links
// the constraints force remain, which needs no backtracking when a solution
// exists. A nil error or ErrUnsatisfiable is therefore always definitive.
//
// The search is meant for graphs of a few dozen nodes at most. The same seed
// and problem always produce the same assignment.
type Backtracker struct {
	Seed       uint64
	Restarts   int // bounded attempts before the final unbounded one (default DefaultRestarts)
	StepBudget int // decisions allowed in the first attempt (default DefaultStepBudget)
}

// Solve implements [Solver].
func (b Backtracker) Solve(ctx context.Context, p *Problem) (Assignment, error) {
	restarts := b.Restarts
	if restarts <= 0 {
		restarts = DefaultRestarts
	}
	budget := b.StepBudget
	if budget <= 0 {
		budget = DefaultStepBudget
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		limit := budget << attempt
		pTrue := 0.5 / float64(int(1)<<attempt)
		if attempt >= restarts {
			limit, pTrue = 0, 0
		}
		seed := b.Seed + uint64(attempt)
		s := &search{
			problem: p,
			partial: make(Partial, p.VarCount()),
			rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
			limit:   limit,
			pTrue:   pTrue,
			ctx:     ctx,
		}
		a, err := s.run()
		if errors.Is(err, errBudget) {
			continue
		}
		return a, err
	}
}

type search struct {
	problem *Problem
	partial Partial
	trail   []Var
	order   []Var
	rng     *rand.Rand
	steps   int
	limit   int
	pTrue   float64
	ctx     context.Context
}

func (s *search) run() (Assignment, error) {
	for _, c := range s.problem.constraints {
		if c.Check(s.partial) == Violated {
			return nil, ErrUnsatisfiable
		}
	}
	var queue []Var
	for i := range s.problem.constraints {
		if !s.propagateConstraint(i, &queue) {
			return nil, ErrUnsatisfiable
		}
	}
	if !s.drain(queue) {
		return nil, ErrUnsatisfiable
	}

	s.order = make([]Var, s.problem.VarCount())
	for i, j := range s.rng.Perm(len(s.order)) {
		s.order[i] = Var(j)
	}

	ok, err := s.decide(0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnsatisfiable
	}

	a := make(Assignment, len(s.partial))
	for i, v := range s.partial {
		a[i] = v == True
	}
	if err := s.problem.Verify(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *search) decide(next int) (bool, error) {
	for next < len(s.order) && s.partial[s.order[next]] != Unknown {
		next++
	}
	if next == len(s.order) {
		return true, nil
	}

	v := s.order[next]
	values := [2]Value{True, False}
	if s.rng.Float64() >= s.pTrue {
		values[0], values[1] = values[1], values[0]
	}

	for _, val := range values {
		s.steps++
		if s.limit > 0 && s.steps > s.limit {
			return false, errBudget
		}
		if s.steps&1023 == 0 {
			if err := s.ctx.Err(); err != nil {
				return false, err
			}
		}

		mark := len(s.trail)
		if s.assign(v, val) {
			ok, err := s.decide(next + 1)
			if ok || err != nil {
				return ok, err
			}
		}
		s.undo(mark)
	}
	return false, nil
}

// assign sets v and propagates until fixpoint. It reports false on conflict;
// the caller undoes the trail either way.
func (s *search) assign(v Var, val Value) bool {
	s.set(v, val)
	return s.drain([]Var{v})
}

func (s *search) drain(queue []Var) bool {
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ci := range s.problem.watch[cur] {
			if !s.propagateConstraint(ci, &queue) {
				return false
			}
		}
	}
	return true
}

// propagateConstraint probes every undecided variable of constraint ci and
// fixes those with only one consistent value. Forced variables are appended
// to queue.
func (s *search) propagateConstraint(ci int, queue *[]Var) bool {
	c := s.problem.constraints[ci]
	switch c.Check(s.partial) {
	case Violated:
		return false
	case Satisfied:
		return true
	}
	for _, u := range c.Vars() {
		if s.partial[u] != Unknown {
			continue
		}
		s.partial[u] = True
		withTrue := c.Check(s.partial)
		s.partial[u] = False
		withFalse := c.Check(s.partial)
		s.partial[u] = Unknown

		var forced Value
		switch {
		case withTrue == Violated && withFalse == Violated:
			return false
		case withTrue == Violated:
			forced = False
		case withFalse == Violated:
			forced = True
		default:
			continue
		}
		s.set(u, forced)
		*queue = append(*queue, u)
	}
	return true
}

func (s *search) set(v Var, val Value) {
	s.partial[v] = val
	s.trail = append(s.trail, v)
}

func (s *search) undo(mark int) {
	for len(s.trail) > mark {
		last := s.trail[len(s.trail)-1]
		s.partial[last] = Unknown
		s.trail = s.trail[:len(s.trail)-1]
	}
}

// MaxBruteForceVars is the largest problem [BruteForce] accepts.
const MaxBruteForceVars = 24

// ErrTooLarge is returned by [BruteForce] for problems with more than
// MaxBruteForceVars variables.
var ErrTooLarge = errors.New("problem too large for exhaustive search")

// BruteForce enumerates every assignment in increasing binary order and
// returns the first that satisfies the problem. Variable 0 is the least
// significant bit.
type BruteForce struct{}

// Solve implements [Solver].
func (BruteForce) Solve(ctx context.Context, p *Problem) (Assignment, error) {
	var found Assignment
	err := BruteForce{}.Each(ctx, p, func(a Assignment) bool {
		found = a
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrUnsatisfiable
	}
	return found, nil
}

// Each calls fn with every satisfying assignment until fn returns false.
// The assignment passed to fn is freshly allocated.
func (BruteForce) Each(ctx context.Context, p *Problem, fn func(Assignment) bool) error {
	n := p.VarCount()
	if n > MaxBruteForceVars {
		return ErrTooLarge
	}
	partial := make(Partial, n)
	for mask := uint64(0); mask < 1<<n; mask++ {
		if mask&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for i := range partial {
			if mask&(1<<i) != 0 {
				partial[i] = True
			} else {
				partial[i] = False
			}
		}
		if !satisfies(p, partial) {
			continue
		}
		a := make(Assignment, n)
		for i, v := range partial {
			a[i] = v == True
		}
		if !fn(a) {
			return nil
		}
	}
	return nil
}

func satisfies(p *Problem, partial Partial) bool {
	for _, c := range p.constraints {
		if c.Check(partial) != Satisfied {
			return false
		}
	}
	return true
}

var (
	_ Solver = Backtracker{}
	_ Solver = BruteForce{}
)
