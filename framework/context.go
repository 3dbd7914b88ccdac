package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// SkippedByFilter is the skip reason reported for tests that the run's filter excludes.
const SkippedByFilter = "excluded by filter parameters"

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the framework's equivalent of *testing.T for one test or group of tests. It
// satisfies the TestingT interfaces of testify's assert and require packages.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes the root action and returns the accumulated results of every test started
// beneath it.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

func (c *Context) ID() TestID {
	return c.id
}

// Failed reports whether the test has recorded any failure so far.
func (c *Context) Failed() bool {
	return c.failed
}

// Run runs a subtest. A failure in the subtest does not stop the parent, so later subtests
// still run.
func (c *Context) Run(name string, action func(*Context)) {
	c.runDescribed(name, "", action)
}

func (c *Context) runDescribed(name, description string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	if c.env.filter != nil && !c.env.filter(id) {
		c.record(TestResult{TestID: id, Skipped: true})
		c.env.testLogger.TestSkipped(id, SkippedByFilter)
		return
	}
	c.env.testLogger.TestStarted(id, description)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	if description != "" {
		c1.Debug("%s", description)
	}
	c1.run(action)
	c.record(TestResult{TestID: id, Errors: c1.errors, Skipped: c1.skipped})
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		if c1.failed {
			c.env.results.Failures = append(c.env.results.Failures, TestResult{TestID: id, Errors: c1.errors})
		}
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) record(result TestResult) {
	c.env.results.Tests = append(c.env.results.Tests, result)
	if result.Skipped {
		c.env.results.Skipped = append(c.env.results.Skipped, result)
	}
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

// FailNow stops the current test immediately. It does not affect any other test.
func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError collapses the blank lines and leading tabs that testify puts in its
// multi-line failure messages, which are meant for a terminal attached to "go test".
func reformatError(err error) error {
	var lines []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimLeft(line, "\t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return errors.New(strings.Join(lines, "\n"))
}
