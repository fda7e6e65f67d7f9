package sat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsatisfiable is returned by [Solver.Solve] when no assignment meets
	// every posted constraint.
	ErrUnsatisfiable = errors.New("unsatisfiable")

	// ErrUnknownVar is returned by [Problem.Post] when a constraint references
	// a variable the problem does not own.
	ErrUnknownVar = errors.New("unknown variable")

	// ErrAssignmentSize is returned by [Problem.Verify] when the assignment
	// does not cover exactly the problem's variables.
	ErrAssignmentSize = errors.New("assignment size mismatch")
)

// Var identifies a boolean decision variable within one [Problem].
type Var int

// Value is the state of a variable in a partial assignment.
type Value int8

const (
	Unknown Value = iota
	False
	True
)

// Partial is an assignment in progress, indexed by [Var].
type Partial []Value

// Status is the result of evaluating a constraint against a partial assignment.
type Status int

const (
	// Undetermined means the constraint may still go either way.
	Undetermined Status = iota
	// Satisfied means no completion of the partial assignment can violate it.
	Satisfied
	// Violated means no completion of the partial assignment can satisfy it.
	Violated
)

func (s Status) String() string {
	switch s {
	case Satisfied:
		return "satisfied"
	case Violated:
		return "violated"
	default:
		return "undetermined"
	}
}

// Constraint restricts the values of a set of variables.
//
// Check must be sound: it may only report Violated when no completion of p
// satisfies the constraint, and Satisfied when every completion does. For a
// complete assignment it must return Satisfied or Violated.
type Constraint interface {
	Vars() []Var
	Check(p Partial) Status
	String() string
}

// Problem is a set of boolean variables and the constraints posted over them.
// The zero value is not usable - use NewProblem.
type Problem struct {
	names       []string
	constraints []Constraint
	watch       [][]int // var -> indices into constraints
}

// NewProblem creates an empty problem.
func NewProblem() *Problem {
	return &Problem{}
}

// Bool declares a new boolean variable and returns its handle.
func (p *Problem) Bool(name string) Var {
	p.names = append(p.names, name)
	p.watch = append(p.watch, nil)
	return Var(len(p.names) - 1)
}

// VarCount returns the number of declared variables.
func (p *Problem) VarCount() int { return len(p.names) }

// Name returns the name a variable was declared with.
func (p *Problem) Name(v Var) string {
	if int(v) < 0 || int(v) >= len(p.names) {
		return ""
	}
	return p.names[v]
}

// Post adds a constraint. Returns ErrUnknownVar if the constraint references
// a variable that was not declared with Bool.
func (p *Problem) Post(c Constraint) error {
	for _, v := range c.Vars() {
		if int(v) < 0 || int(v) >= len(p.names) {
			return fmt.Errorf("%w: %d in %s", ErrUnknownVar, v, c)
		}
	}
	idx := len(p.constraints)
	p.constraints = append(p.constraints, c)
	for _, v := range c.Vars() {
		p.watch[v] = append(p.watch[v], idx)
	}
	return nil
}

// Constraints returns the posted constraints in posting order.
func (p *Problem) Constraints() []Constraint { return p.constraints }

// Verify checks a complete assignment against every posted constraint.
// It returns nil when the assignment satisfies the problem, ErrAssignmentSize
// when it has the wrong length, or an error wrapping ErrUnsatisfiable that
// names the first violated constraint.
func (p *Problem) Verify(a Assignment) error {
	if len(a) != len(p.names) {
		return fmt.Errorf("%w: got %d values for %d variables", ErrAssignmentSize, len(a), len(p.names))
	}
	partial := a.Partial()
	for _, c := range p.constraints {
		if c.Check(partial) != Satisfied {
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
	}
	return nil
}

// Assignment maps every variable of a problem to true or false.
type Assignment []bool

// Value returns the value of v. Out-of-range variables read as false.
func (a Assignment) Value(v Var) bool {
	if int(v) < 0 || int(v) >= len(a) {
		return false
	}
	return a[v]
}

// Count returns how many of vars are true.
func (a Assignment) Count(vars []Var) int {
	n := 0
	for _, v := range vars {
		if a.Value(v) {
			n++
		}
	}
	return n
}

// Partial converts the assignment to a fully determined partial assignment.
func (a Assignment) Partial() Partial {
	p := make(Partial, len(a))
	for i, b := range a {
		if b {
			p[i] = True
		} else {
			p[i] = False
		}
	}
	return p
}

// String encodes the assignment as a string of '0' and '1', one per variable.
func (a Assignment) String() string {
	var b strings.Builder
	b.Grow(len(a))
	for _, v := range a {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseAssignment decodes the format produced by [Assignment.String].
func ParseAssignment(s string) (Assignment, error) {
	a := make(Assignment, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			a[i] = true
		case '0':
		default:
			return nil, fmt.Errorf("invalid assignment byte %q at %d", s[i], i)
		}
	}
	return a, nil
}
