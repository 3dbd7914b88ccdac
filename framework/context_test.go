package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	events []string
}

func (r *recordingTestLogger) TestStarted(id TestID, description string) {
	r.events = append(r.events, "start "+id.String())
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, "error "+id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if failed {
		r.events = append(r.events, "failed "+id.String())
	} else {
		r.events = append(r.events, "passed "+id.String())
	}
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, "skipped "+id.String()+" ("+reason+")")
}

func TestPassingTest(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {})
	})
	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.Equal(t, "a", results.Tests[0].TestID.String())
	assert.Equal(t, 1, results.Passed())
}

func TestErrorfDoesNotStopTest(t *testing.T) {
	reachedEnd := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Errorf("first %d", 1)
			c.Errorf("second")
			reachedEnd = true
		})
	})
	assert.True(t, reachedEnd)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, []error{errors.New("first 1"), errors.New("second")}, results.Failures[0].Errors)
}

func TestRequireStopsOnlyTheCurrentTest(t *testing.T) {
	var ran []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			require.Equal(c, 1, 2)
			ran = append(ran, "a after require")
		})
		c.Run("b", func(c *Context) {
			ran = append(ran, "b")
		})
	})
	assert.Equal(t, []string{"b"}, ran)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "a", results.Failures[0].TestID.String())
	assert.Equal(t, 1, results.Passed())
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) { c.FailNow() })
	})
	require.Len(t, results.Failures, 1)
	assert.EqualError(t, results.Failures[0].Errors[0], "test failed with no failure message")
}

func TestUnexpectedPanicIsRecorded(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) { panic("boom") })
		c.Run("b", func(c *Context) {})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
	assert.Equal(t, 1, results.Passed())
}

func TestSkip(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.SkipWithReason("not today")
			c.Errorf("unreachable")
		})
	})
	assert.True(t, results.OK())
	require.Len(t, results.Skipped, 1)
	assert.Equal(t, []string{"start a", "skipped a (not today)"}, logger.events)
}

func TestNestedTestIDs(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {
				assert.Equal(c, []string{"outer", "inner"}, c.ID().Path)
				c.Errorf("bad")
			})
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "outer/inner", results.Failures[0].TestID.String())
	assert.Equal(t, "inner", results.Failures[0].TestID.Name())
}

func TestFilterSkipsTestsWithoutStartingThem(t *testing.T) {
	logger := &recordingTestLogger{}
	ran := false
	filter := func(id TestID) bool { return id.Name() != "b" }
	results := Run(filter, logger, func(c *Context) {
		c.Run("a", func(c *Context) {})
		c.Run("b", func(c *Context) { ran = true })
	})
	assert.False(t, ran)
	assert.Equal(t, []string{"start a", "passed a", "skipped b (" + SkippedByFilter + ")"}, logger.events)
	assert.Len(t, results.Tests, 2)
	assert.Len(t, results.Skipped, 1)
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	var output CapturedOutput
	logger := &capturingTestLogger{onFinish: func(o CapturedOutput) { output = o }}
	Run(nil, logger, func(c *Context) {
		c.runDescribed("a", "what a does", func(c *Context) {
			c.Debug("value %d", 3)
			c.DebugLogger().Printf("more")
		})
	})
	require.Len(t, output, 3)
	assert.Equal(t, "what a does", output[0].Message)
	assert.Equal(t, "value 3", output[1].Message)
	assert.Equal(t, "more", output[2].Message)
}

func TestErrorsAreReformattedForTheLogger(t *testing.T) {
	logger := &recordingTestLogger{}
	Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) { c.Errorf("\n\tError:\n\t\tnot equal\n\n") })
	})
	assert.Contains(t, logger.events, "error a: Error:\nnot equal")
}

type capturingTestLogger struct {
	nullTestLogger
	onFinish func(CapturedOutput)
}

func (c *capturingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	c.onFinish(debugOutput)
}
