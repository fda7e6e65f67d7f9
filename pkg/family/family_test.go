package family

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
	"testing"
	"time"

	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/population"
	"github.com/matzehuels/kindred/pkg/sat"
)

// stubSolver returns a fixed result.
type stubSolver struct {
	a     sat.Assignment
	err   error
	calls int
}

func (s *stubSolver) Solve(context.Context, *sat.Problem) (sat.Assignment, error) {
	s.calls++
	return s.a, s.err
}

func mustNew(t *testing.T, nodes int, surname string, lo, hi float64, seed uint64) *Graph {
	t.Helper()
	g, err := New(context.Background(), nodes, surname, lo, hi, Options{Solver: sat.Backtracker{Seed: seed}})
	if err != nil {
		t.Fatalf("New(%d, %q, %g, %g) error: %v", nodes, surname, lo, hi, err)
	}
	return g
}

// connected reports whether the present edges of g span all nodes.
func connected(g *Graph) bool {
	if g.NodeCount() <= 1 {
		return true
	}
	adj := make(map[NodeIndex][]NodeIndex)
	for _, e := range g.PresentEdges() {
		adj[e.Source] = append(adj[e.Source], e.Dest)
		adj[e.Dest] = append(adj[e.Dest], e.Source)
	}
	seen := map[NodeIndex]bool{0: true}
	queue := []NodeIndex{0}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range adj[n] {
			if !seen[m] {
				seen[m] = true
				queue = append(queue, m)
			}
		}
	}
	return len(seen) == g.NodeCount()
}

func TestDensityBounds(t *testing.T) {
	tests := []struct {
		name     string
		nodes    int
		lo, hi   float64
		want     Bounds
		wantCode errors.Code
	}{
		{"single node", 1, 0.2, 0.8, Bounds{Total: 0, Lo: 0, Hi: 0}, ""},
		{"two nodes forced", 2, 0, 0.5, Bounds{Total: 1, Lo: 0, Hi: 1, Forced: true}, ""},
		{"two nodes full", 2, 0, 1, Bounds{Total: 1, Lo: 0, Hi: 1}, ""},
		{"five nodes", 5, 0.3, 0.7, Bounds{Total: 10, Lo: 3, Hi: 7}, ""},
		{"rounding", 4, 0.25, 0.6, Bounds{Total: 6, Lo: 2, Hi: 3}, ""},
		{"exact product", 6, 0.2, 0.6, Bounds{Total: 15, Lo: 3, Hi: 9}, ""},
		{"not clamped", 6, 0, 0.1, Bounds{Total: 15, Lo: 0, Hi: 1}, ""},
		{"zero nodes", 0, 0, 1, Bounds{}, errors.ErrCodeInvalidInput},
		{"inverted", 4, 0.8, 0.2, Bounds{}, errors.ErrCodeInvalidInput},
		{"above one", 4, 0.2, 1.5, Bounds{}, errors.ErrCodeInvalidInput},
		{"negative", 4, -0.1, 0.5, Bounds{}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DensityBounds(tt.nodes, tt.lo, tt.hi)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("DensityBounds() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("DensityBounds() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DensityBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildEdgeOrder(t *testing.T) {
	_, edges, err := Build(4, Bounds{Total: 6, Lo: 0, Hi: 6})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	want := [][2]NodeIndex{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if len(edges) != len(want) {
		t.Fatalf("len(edges) = %d, want %d", len(edges), len(want))
	}
	for i, e := range edges {
		if e.Index != EdgeIndex(i) || e.Source != want[i][0] || e.Dest != want[i][1] {
			t.Errorf("edge %d = %+v, want %d--%d", i, e, want[i][0], want[i][1])
		}
	}
}

func TestNewConnectedWithinDensity(t *testing.T) {
	tests := []struct {
		nodes  int
		lo, hi float64
	}{
		{1, 0, 1},
		{2, 0, 0.4},
		{3, 0.5, 1},
		{4, 0.4, 0.8},
		{5, 0.3, 0.6},
		{6, 0.3, 0.5},
		{7, 0.25, 0.5},
		{8, 0.25, 0.4},
	}

	for _, tt := range tests {
		for seed := uint64(0); seed < 4; seed++ {
			t.Run(fmt.Sprintf("n=%d/seed=%d", tt.nodes, seed), func(t *testing.T) {
				g := mustNew(t, tt.nodes, "Osei", tt.lo, tt.hi, seed)
				if !connected(g) {
					t.Errorf("graph is not connected: %v", g.PresentEdges())
				}
				if want := tt.nodes * (tt.nodes - 1) / 2; g.EdgeCount() != want {
					t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), want)
				}
				b := g.Bounds()
				if !b.Contains(g.PresentCount()) {
					t.Errorf("present edges = %d, want within %s", g.PresentCount(), b)
				}
				if !b.Forced && g.EdgeCount() > 0 {
					if d := g.Density(); d < tt.lo-1e-9 || d > tt.hi+1e-9 {
						t.Errorf("Density() = %g, want in [%g, %g]", d, tt.lo, tt.hi)
					}
				}
			})
		}
	}
}

func TestNewTwoNodesForcesEdge(t *testing.T) {
	g := mustNew(t, 2, "Tanaka", 0, 0, 1)
	if !g.Bounds().Forced {
		t.Error("Bounds().Forced = false, want true")
	}
	if ok, err := g.IsEdgePresent(0); err != nil || !ok {
		t.Errorf("IsEdgePresent(0) = %v, %v; want true, nil", ok, err)
	}
}

func TestNewUnsatisfiable(t *testing.T) {
	_, err := New(context.Background(), 6, "Vargas", 0, 0.2, Options{})
	if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
		t.Fatalf("New() error = %v, want UNSATISFIABLE_CONSTRAINTS", err)
	}
	if !stderrors.Is(err, sat.ErrUnsatisfiable) {
		t.Errorf("New() error does not wrap sat.ErrUnsatisfiable: %v", err)
	}
	if !errors.Fatal(err) {
		t.Error("unsatisfiable setup should be fatal")
	}
}

func TestNewUnsatisfiableLargeFamilies(t *testing.T) {
	tests := []struct {
		nodes    int
		min, max float64
	}{
		{10, 0, 0.15},
		{12, 0, 0.1},
		{20, 0, 0.05},
		{24, 0, 0.07},
		{7, 0.5, 0.52},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d [%g,%g]", tt.nodes, tt.min, tt.max), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			s := &stubSolver{}
			_, err := New(ctx, tt.nodes, "Vargas", tt.min, tt.max, Options{Solver: s})
			if !errors.Is(err, errors.ErrCodeUnsatisfiable) || !stderrors.Is(err, sat.ErrUnsatisfiable) {
				t.Fatalf("New() error = %v, want UNSATISFIABLE_CONSTRAINTS", err)
			}
			if s.calls != 0 {
				t.Errorf("solver called %d times for bounds no connected graph meets", s.calls)
			}

			_, err = New(ctx, tt.nodes, "Vargas", tt.min, tt.max, Options{Solver: sat.Backtracker{Seed: 1}})
			if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
				t.Errorf("New(backtracker) error = %v, want UNSATISFIABLE_CONSTRAINTS", err)
			}
		})
	}
}

func TestNewSolvesOnce(t *testing.T) {
	s := &stubSolver{err: sat.ErrUnsatisfiable}
	_, err := New(context.Background(), 4, "Hakim", 0.5, 1, Options{Solver: s})
	if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
		t.Fatalf("New() error = %v, want UNSATISFIABLE_CONSTRAINTS", err)
	}
	if s.calls != 1 {
		t.Errorf("solver called %d times, want 1", s.calls)
	}
}

func TestNewRejectsInvalidAssignment(t *testing.T) {
	// three nodes, nothing selected: disconnected
	s := &stubSolver{a: sat.Assignment{false, false, false}}
	_, err := New(context.Background(), 3, "Hakim", 0, 1, Options{Solver: s})
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("New() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestRestore(t *testing.T) {
	g := mustNew(t, 5, "Reyes", 0.3, 0.7, 4)
	a, err := g.Assignment()
	if err != nil {
		t.Fatalf("Assignment() error: %v", err)
	}
	r, err := Restore(5, "Reyes", 0.3, 0.7, a)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	for _, e := range g.EdgeList() {
		want, _ := g.IsEdgePresent(e.Index)
		got, _ := r.IsEdgePresent(e.Index)
		if got != want {
			t.Errorf("edge %d: restored %v, original %v", e.Index, got, want)
		}
	}

	empty := make(sat.Assignment, 10)
	if _, err := Restore(5, "Reyes", 0.3, 0.7, empty); !errors.Is(err, errors.ErrCodeUnsatisfiable) {
		t.Errorf("Restore(empty) error = %v, want UNSATISFIABLE_CONSTRAINTS", err)
	}
}

func TestIsEdgePresentOutOfRange(t *testing.T) {
	g := mustNew(t, 3, "Kim", 0, 1, 1)
	for _, idx := range []EdgeIndex{-1, 3, 100} {
		if _, err := g.IsEdgePresent(idx); !errors.Is(err, errors.ErrCodeInvalidEdgeQuery) {
			t.Errorf("IsEdgePresent(%d) error = %v, want INVALID_EDGE_QUERY", idx, err)
		}
	}
}

func TestMergeLayout(t *testing.T) {
	one := mustNew(t, 4, "Ashford", 0.4, 0.8, 1)
	two := mustNew(t, 5, "Diallo", 0.3, 0.7, 2)
	m, err := Merge(one, two)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}

	if m.NodeCount() != 9 {
		t.Errorf("NodeCount() = %d, want 9", m.NodeCount())
	}
	if m.EdgeCount() != one.EdgeCount()+two.EdgeCount() {
		t.Errorf("EdgeCount() = %d, want %d", m.EdgeCount(), one.EdgeCount()+two.EdgeCount())
	}
	if m.Surname() != "Ashford and Diallo" {
		t.Errorf("Surname() = %q", m.Surname())
	}
	if len(m.Edges()) != m.EdgeCount() {
		t.Errorf("index collision: %d distinct keys for %d slots", len(m.Edges()), m.EdgeCount())
	}

	merged := m.Edges()
	if want := one.Edges(); !maps.Equal(want, subset(merged, 0, one.EdgeCount())) {
		t.Error("family one edges were not copied unchanged")
	}
	for _, e := range two.EdgeList() {
		got := merged[e.Index+EdgeIndex(one.EdgeCount())]
		if got.Source != e.Source+4 || got.Dest != e.Dest+4 {
			t.Errorf("edge %d: merged endpoints %d--%d, want %d--%d",
				e.Index, got.Source, got.Dest, e.Source+4, e.Dest+4)
		}
	}
	for _, e := range m.EdgeList() {
		sameSide := (e.Source < 4) == (e.Dest < 4)
		if !sameSide {
			t.Errorf("edge %d joins the two families: %d--%d", e.Index, e.Source, e.Dest)
		}
	}
}

func subset(m map[EdgeIndex]Edge, from, to int) map[EdgeIndex]Edge {
	out := make(map[EdgeIndex]Edge)
	for i := from; i < to; i++ {
		out[EdgeIndex(i)] = m[EdgeIndex(i)]
	}
	return out
}

func TestMergeDelegatesPresence(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		one := mustNew(t, 3+int(seed%3), "Mensah", 0.3, 1, seed)
		two := mustNew(t, 4, "Patel", 0.4, 0.9, seed+100)
		m, err := Merge(one, two)
		if err != nil {
			t.Fatalf("Merge() error: %v", err)
		}

		for i := 0; i < m.EdgeCount(); i++ {
			got, err := m.IsEdgePresent(EdgeIndex(i))
			if err != nil {
				t.Fatalf("IsEdgePresent(%d) error: %v", i, err)
			}
			src, local := one, EdgeIndex(i)
			if i >= one.EdgeCount() {
				src, local = two, EdgeIndex(i-one.EdgeCount())
			}
			want, _ := src.IsEdgePresent(local)
			if got != want {
				t.Errorf("seed %d edge %d: merged %v, source %v", seed, i, got, want)
			}
		}
		if _, err := m.IsEdgePresent(EdgeIndex(m.EdgeCount())); !errors.Is(err, errors.ErrCodeInvalidEdgeQuery) {
			t.Errorf("out-of-range merged query error = %v, want INVALID_EDGE_QUERY", err)
		}
		if m.PresentCount() != one.PresentCount()+two.PresentCount() {
			t.Errorf("PresentCount() = %d, want %d", m.PresentCount(), one.PresentCount()+two.PresentCount())
		}
	}
}

func TestMergedHasNoAssignment(t *testing.T) {
	m, err := Merge(mustNew(t, 3, "Li", 0, 1, 1), mustNew(t, 3, "Chen", 0, 1, 2))
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if _, err := m.Assignment(); !errors.Is(err, errors.ErrCodeNotSolved) {
		t.Errorf("Assignment() error = %v, want NOT_SOLVED", err)
	}
	if !m.Merged() || len(m.Sources()) != 2 {
		t.Errorf("Merged() = %v, Sources() = %d", m.Merged(), len(m.Sources()))
	}
}

func TestMergeNil(t *testing.T) {
	if _, err := Merge(nil, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Merge(nil, nil) error = %v, want INVALID_INPUT", err)
	}
}

func people(t *testing.T, surname string, n int, seed uint64) []*population.Individual {
	t.Helper()
	p, err := population.NewGenerator(seed).Generate(context.Background(), surname, n)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return p
}

func TestBindOrderAndLinks(t *testing.T) {
	g := mustNew(t, 5, "Santos", 0.3, 0.8, 3)
	pop := people(t, "Santos", 5, 3)
	b, err := g.Bind(pop)
	if err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	for i, p := range pop {
		got, ok := b.Individual(NodeIndex(i))
		if !ok || got != p {
			t.Errorf("node %d bound to %v, want %v", i, got, p)
		}
	}

	present := g.PresentEdges()
	links := b.Links()
	if len(links) != len(present) {
		t.Fatalf("len(Links()) = %d, want %d", len(links), len(present))
	}
	for i, e := range present {
		l := links[i]
		if l.Edge != e.Index || l.Source != pop[e.Source] || l.Dest != pop[e.Dest] {
			t.Errorf("link %d = {%d %s %s}, want edge %d %d--%d",
				i, l.Edge, l.Source.FullName(), l.Dest.FullName(), e.Index, e.Source, e.Dest)
		}
	}
}

func TestBindIdempotentReads(t *testing.T) {
	g := mustNew(t, 4, "Vega", 0.4, 1, 8)
	b, err := g.Bind(people(t, "Vega", 4, 8))
	if err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	first := b.Nodes()
	for range 3 {
		if again := b.Nodes(); !maps.Equal(first, again) {
			t.Fatal("binding changed between reads")
		}
	}
	// mutating a returned copy does not leak back
	delete(first, 0)
	if _, ok := b.Individual(0); !ok {
		t.Error("deleting from Nodes() copy removed node 0 from the binding")
	}
	if got, ok := g.Binding(); !ok || got != b {
		t.Error("Binding() does not return the bound binding")
	}
}

func TestBindErrors(t *testing.T) {
	g := mustNew(t, 3, "Kone", 0, 1, 1)
	if _, err := g.Bind(people(t, "Kone", 2, 1)); !errors.Is(err, errors.ErrCodeArityMismatch) {
		t.Errorf("Bind(2 people) error = %v, want BINDING_ARITY_MISMATCH", err)
	}
	if _, ok := g.Binding(); ok {
		t.Error("failed Bind() left a binding behind")
	}
	if _, err := g.Bind(people(t, "Kone", 3, 1)); err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if _, err := g.Bind(people(t, "Kone", 3, 2)); !errors.Is(err, errors.ErrCodeAlreadyBound) {
		t.Errorf("second Bind() error = %v, want ALREADY_BOUND", err)
	}
}

func TestBindMerged(t *testing.T) {
	one := mustNew(t, 3, "Nazari", 0, 1, 5)
	two := mustNew(t, 4, "Abbasi", 0.5, 1, 6)
	m, err := Merge(one, two)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	pop := append(people(t, "Nazari", 3, 5), people(t, "Abbasi", 4, 6)...)
	b, err := m.Bind(pop)
	if err != nil {
		t.Fatalf("Bind() error: %v", err)
	}
	if got, want := len(b.Links()), one.PresentCount()+two.PresentCount(); got != want {
		t.Errorf("len(Links()) = %d, want %d", got, want)
	}
	for _, l := range b.Links() {
		if l.Source.Surname != l.Dest.Surname {
			t.Errorf("link %d joins %s and %s", l.Edge, l.Source.Surname, l.Dest.Surname)
		}
	}
}
