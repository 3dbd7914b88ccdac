package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	assert.False(t, filters.IsDefined())
	assert.True(t, filters.AsFilter(testID("01 GET /status")))

	require.NoError(t, filters.MustMatch.Set("^0[0-9] "))
	require.NoError(t, filters.MustMatch.Set("^42 "))
	require.NoError(t, filters.MustNotMatch.Set("limit"))
	assert.True(t, filters.IsDefined())

	assert.True(t, filters.AsFilter(testID("01 GET /status")))
	assert.True(t, filters.AsFilter(testID("42 POST /orders")))
	assert.False(t, filters.AsFilter(testID("07 GET /books | limit = 1")))
	assert.False(t, filters.AsFilter(testID("43 POST /orders | Book is not in stock")))
	assert.Equal(t, []string{"^0[0-9] ", "^42 "}, filters.MustMatch.Patterns())
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	assert.Error(t, list.Set("("))
	assert.False(t, list.IsDefined())
}

func TestPrintFilterDescription(t *testing.T) {
	var out strings.Builder
	PrintFilterDescription(&out, RegexFilters{})
	assert.Empty(t, out.String())

	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("PATCH"))
	PrintFilterDescription(&out, filters)
	assert.Contains(t, out.String(), `skip any matching "PATCH"`)
	assert.NotContains(t, out.String(), "not matching")
}
