package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepTestName(t *testing.T) {
	assert.Equal(t, "07 GET /books | limit = 1", Step{Order: 7, Name: "GET /books | limit = 1"}.TestName())
	assert.Equal(t, "75 DELETE /orders", Step{Order: 75, Name: "DELETE /orders"}.TestName())
}

func TestSequenceRunsInOrder(t *testing.T) {
	var ran []int
	step := func(order int) Step {
		return Step{Order: order, Name: "step", Action: func(*Context) { ran = append(ran, order) }}
	}
	var runErr error
	results := Run(nil, nil, func(c *Context) {
		runErr = c.RunSequence(Sequence{step(2), step(0), step(10), step(1)})
	})
	require.NoError(t, runErr)
	assert.Equal(t, []int{0, 1, 2, 10}, ran)
	assert.Equal(t, "00 step", results.Tests[0].TestID.String())
	assert.Equal(t, "10 step", results.Tests[3].TestID.String())
}

func TestSequenceContinuesAfterFailure(t *testing.T) {
	var ran []string
	results := Run(nil, nil, func(c *Context) {
		_ = c.RunSequence(Sequence{
			{Order: 0, Name: "fails", Action: func(c *Context) {
				c.FailNow()
			}},
			{Order: 1, Name: "runs", Action: func(c *Context) { ran = append(ran, "runs") }},
		})
	})
	assert.Equal(t, []string{"runs"}, ran)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "00 fails", results.Failures[0].TestID.String())
}

func TestSequenceRejectsDuplicateOrder(t *testing.T) {
	noop := func(*Context) {}
	_, err := Sequence{{Order: 1, Name: "a", Action: noop}, {Order: 1, Name: "b", Action: noop}}.Sorted()
	assert.Error(t, err)

	ran := false
	var runErr error
	Run(nil, nil, func(c *Context) {
		runErr = c.RunSequence(Sequence{
			{Order: 0, Name: "a", Action: func(*Context) { ran = true }},
			{Order: 0, Name: "b", Action: noop},
		})
	})
	assert.Error(t, runErr)
	assert.False(t, ran)
}

func TestSequenceRejectsMissingAction(t *testing.T) {
	_, err := Sequence{{Order: 1, Name: "a"}}.Sorted()
	assert.Error(t, err)
}

func TestSortedDoesNotModifyOriginal(t *testing.T) {
	noop := func(*Context) {}
	seq := Sequence{{Order: 2, Name: "b", Action: noop}, {Order: 1, Name: "a", Action: noop}}
	sorted, err := seq.Sorted()
	require.NoError(t, err)
	assert.Equal(t, "a", sorted[0].Name)
	assert.Equal(t, "b", seq[0].Name)
}
