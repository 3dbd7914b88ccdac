package framework

import (
	"fmt"
	"sort"
)

// Step is one numbered test case in an ordered sequence.
type Step struct {
	Order       int
	Name        string
	Description string
	Action      func(*Context)
}

// TestName is the name under which the step is reported, e.g. "07 GET /books | limit = 1".
// The order number is zero-padded so that regex filters such as "^0[0-9] " select a range.
func (s Step) TestName() string {
	return fmt.Sprintf("%02d %s", s.Order, s.Name)
}

// Sequence is a list of steps that must run strictly by ascending Order. Order numbers are
// authoritative: nothing checks that a step only reads state written by earlier steps.
type Sequence []Step

// Sorted returns a copy of the sequence in execution order. It fails if two steps share an
// order number or a step has no action, since either would make the run order ambiguous.
func (s Sequence) Sorted() (Sequence, error) {
	ret := append(Sequence(nil), s...)
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].Order < ret[j].Order })
	for i, step := range ret {
		if step.Action == nil {
			return nil, fmt.Errorf("step %d (%s) has no action", step.Order, step.Name)
		}
		if i > 0 && ret[i-1].Order == step.Order {
			return nil, fmt.Errorf("steps %q and %q both have order %d", ret[i-1].Name, step.Name, step.Order)
		}
	}
	return ret, nil
}

// RunSequence runs every step as a subtest, in order. A failing step does not prevent the
// following ones from running.
func (c *Context) RunSequence(seq Sequence) error {
	sorted, err := seq.Sorted()
	if err != nil {
		return err
	}
	for _, step := range sorted {
		c.runDescribed(step.TestName(), step.Description, step.Action)
	}
	return nil
}
