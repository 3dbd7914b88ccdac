package framework

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCapturedOutputDump(t *testing.T) {
	when := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	output := CapturedOutput{
		{Time: when, Message: "GET /books"},
		{Time: when, Message: "Response 200\n[]\n"},
	}
	var out strings.Builder
	output.Dump(&out, "  ")
	assert.Equal(t,
		"  [2026-10-19 09:30:00.000] GET /books\n"+
			"  [2026-10-19 09:30:00.000] Response 200\n"+
			"      []\n",
		out.String())
}

func TestPrefixedLogger(t *testing.T) {
	var target CapturingLogger
	PrefixedLogger(&target, "[state] ").Printf("could not save %s", "orderId")
	assert.Equal(t, "[state] could not save orderId", target.Output()[0].Message)

	assert.Equal(t, NullLogger(), PrefixedLogger(nil, "x"))
}
