package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/simplebooks/books-contract-tests/framework"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	passedColor  = color.New(color.FgGreen)
	skippedColor = color.New(color.FgYellow)
	debugColor   = color.New(color.Faint)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID, description string) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		failedColor.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		var buf strings.Builder
		debugOutput.Dump(&buf, "    DEBUG ")
		debugColor.Fprint(c.Out, buf.String())
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	switch reason {
	case framework.SkippedByFilter:
	case "":
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	default:
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// printResults writes the summary that ends a run.
func printResults(out io.Writer, results framework.Results) {
	fmt.Fprintln(out)
	if results.OK() {
		passedColor.Fprintf(out, "All %d tests passed", results.Passed())
	} else {
		failedColor.Fprintf(out, "%d of %d tests failed", len(results.Failures), len(results.Tests)-len(results.Skipped))
	}
	if len(results.Skipped) != 0 {
		skippedColor.Fprintf(out, " (%d skipped)", len(results.Skipped))
	}
	fmt.Fprintln(out)
	for _, f := range results.Failures {
		failedColor.Fprintf(out, "  FAILED: %s\n", f.TestID)
	}
}
