package sat

import "fmt"

// Link is one potential edge of a [Connected] constraint: when Var is true,
// nodes A and B are adjacent.
type Link struct {
	Var  Var
	A, B int
}

// Connected requires the links whose variables are true to form a single
// connected component spanning nodes 0..Nodes-1. Zero or one node is always
// connected.
type Connected struct {
	Nodes int
	Links []Link
}

// Vars returns the link variables.
func (c Connected) Vars() []Var {
	vars := make([]Var, len(c.Links))
	for i, l := range c.Links {
		vars[i] = l.Var
	}
	return vars
}

// Check reports Satisfied once the true links already connect every node and
// Violated as soon as the true-or-unknown links cannot.
func (c Connected) Check(p Partial) Status {
	if c.Nodes <= 1 {
		return Satisfied
	}
	if c.components(p, func(v Value) bool { return v == True }) == 1 {
		return Satisfied
	}
	if c.components(p, func(v Value) bool { return v != False }) > 1 {
		return Violated
	}
	return Undetermined
}

func (c Connected) components(p Partial, usable func(Value) bool) int {
	uf := newUnionFind(c.Nodes)
	for _, l := range c.Links {
		if usable(p[l.Var]) {
			uf.union(l.A, l.B)
		}
	}
	return uf.count
}

func (c Connected) String() string {
	return fmt.Sprintf("connected(%d nodes, %d links)", c.Nodes, len(c.Links))
}

// Cardinality requires between Min and Max (inclusive) of the variables in
// Over to be true.
type Cardinality struct {
	Over []Var
	Min  int
	Max  int
}

// Vars returns the counted variables.
func (c Cardinality) Vars() []Var { return c.Over }

// Check counts true and unknown variables against the bounds.
func (c Cardinality) Check(p Partial) Status {
	if c.Min > c.Max {
		return Violated
	}
	var trues, unknowns int
	for _, v := range c.Over {
		switch p[v] {
		case True:
			trues++
		case Unknown:
			unknowns++
		}
	}
	switch {
	case trues > c.Max, trues+unknowns < c.Min:
		return Violated
	case trues >= c.Min && trues+unknowns <= c.Max:
		return Satisfied
	default:
		return Undetermined
	}
}

func (c Cardinality) String() string {
	return fmt.Sprintf("cardinality(%d vars in [%d, %d])", len(c.Over), c.Min, c.Max)
}

type unionFind struct {
	parent []int
	count  int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, count: n}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
		u.count--
	}
}
