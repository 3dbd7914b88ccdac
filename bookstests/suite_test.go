package bookstests

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplebooks/books-contract-tests/callspec"
	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/fakeapi"
	"github.com/simplebooks/books-contract-tests/framework"
	"github.com/simplebooks/books-contract-tests/state"
)

func startFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(fakeapi.NewRouter(fakeapi.NewStore(), nil))
	t.Cleanup(srv.Close)
	return srv
}

func suiteParams(baseURL string, store *state.Store) SuiteParams {
	return SuiteParams{
		Client:   client.New(client.Options{}),
		Store:    store,
		Defaults: callspec.Defaults(baseURL),
	}
}

func onlyMatching(pattern string) framework.Filter {
	var filters framework.RegexFilters
	if err := filters.MustMatch.Set(pattern); err != nil {
		panic(err)
	}
	return filters.AsFilter
}

func requireNoFailures(t *testing.T, results framework.Results) {
	t.Helper()
	for _, f := range results.Failures {
		for _, err := range f.Errors {
			t.Errorf("%s: %s", f.TestID, err)
		}
	}
	require.True(t, results.OK())
}

func TestTestNames(t *testing.T) {
	names := TestNames()
	require.Len(t, names, 76)
	assert.Equal(t, "00 Preparatory function before all tests run", names[0])
	assert.Equal(t, "07 GET /books | limit = 1", names[7])
	assert.Equal(t, "75 DELETE /orders | Nonexistent id", names[75])
	for i, name := range names {
		assert.Regexp(t, fmt.Sprintf("^%02d ", i), name)
	}
}

func TestFullSuitePassesAgainstFakeAPI(t *testing.T) {
	srv := startFakeAPI(t)
	store := state.NewStore(state.NewMemoryBackend(), nil)

	results, err := RunTestSuite(context.Background(), suiteParams(srv.URL, store), nil, nil)
	require.NoError(t, err)
	requireNoFailures(t, results)
	assert.Len(t, results.Tests, 76)
	assert.Empty(t, results.Skipped)

	snapshot, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	for _, key := range []string{
		KeyFirstAvailableBookID, KeyFirstUnavailableBookID, KeyAccessToken, KeyOtherAccessToken,
		KeyOccupiedEmail, KeyBookID, KeyOrderID, KeyCustomerName, KeyCreatedBy, KeyQuantity, KeyTimestamp,
	} {
		assert.NotEmpty(t, snapshot[key], key)
	}
	assert.Equal(t, "1", snapshot[KeyFirstAvailableBookID])
	assert.Equal(t, "2", snapshot[KeyFirstUnavailableBookID])
	assert.Equal(t, "1", snapshot[KeyQuantity])
}

func TestSuiteCanRunTwiceOnTheSameState(t *testing.T) {
	srv := startFakeAPI(t)
	store := state.NewStore(state.NewMemoryBackend(), nil)

	for i := 0; i < 2; i++ {
		results, err := RunTestSuite(context.Background(), suiteParams(srv.URL, store), nil, nil)
		require.NoError(t, err)
		requireNoFailures(t, results)
	}
}

// Each of these runs one test case against a fresh API and an empty state store, so the case
// has to create everything it depends on.
func TestSingleCasesRunInIsolation(t *testing.T) {
	for _, pattern := range []string{
		"^08 ", // list length is the limit or the catalog size
		"^27 ", // occupied email is rejected
		"^43 ", // unavailable book cannot be ordered
		"^52 ",
		"^59 ",
		"^61 ", // rename keeps every other order field
		"^62 ",
		"^70 ", // deleted order is gone
		"^73 ",
	} {
		t.Run(pattern, func(t *testing.T) {
			srv := startFakeAPI(t)
			store := state.NewStore(state.NewMemoryBackend(), nil)

			results, err := RunTestSuite(context.Background(), suiteParams(srv.URL, store), onlyMatching(pattern), nil)
			require.NoError(t, err)
			requireNoFailures(t, results)
			assert.Len(t, results.Skipped, 75)
		})
	}
}

func TestRenameKeepsOtherOrderFields(t *testing.T) {
	srv := startFakeAPI(t)
	store := state.NewStore(state.NewMemoryBackend(), nil)
	ctx := context.Background()

	results, err := RunTestSuite(ctx, suiteParams(srv.URL, store), onlyMatching("^(42|61) "), nil)
	require.NoError(t, err)
	requireNoFailures(t, results)

	assert.Equal(t, "patchTestUsername", store.Get(ctx, KeyCustomerName))
	assert.Equal(t, "1", store.Get(ctx, KeyBookID))
}

func TestFailuresDoNotStopLaterCases(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(500, nil, []byte(`{"error":"boom"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		store := state.NewStore(state.NewMemoryBackend(), nil)
		results, err := RunTestSuite(context.Background(), suiteParams(server.URL, store), onlyMatching("^0[1-3] "), nil)
		require.NoError(t, err)

		require.Len(t, results.Failures, 3)
		assert.Equal(t, "01 GET /status", results.Failures[0].TestID.String())
		assert.Equal(t, "03 GET /books | type: fiction", results.Failures[2].TestID.String())
		assert.Contains(t, results.Failures[0].Errors[0].Error(), "expected HTTP 200, got 500")
	})
}

func TestCatalogSizeIsConfigurable(t *testing.T) {
	srv := startFakeAPI(t)
	params := suiteParams(srv.URL, state.NewStore(state.NewMemoryBackend(), nil))
	params.CatalogSize = 7

	results, err := RunTestSuite(context.Background(), params, onlyMatching("^09 "), nil)
	require.NoError(t, err)
	require.Len(t, results.Failures, 1)
}

func TestDuplicateOrderIsRejected(t *testing.T) {
	cases := []testCase{
		{1, "one", "", func(*T) {}},
		{1, "other", "", func(*T) {}},
	}
	_, err := runTestCases(context.Background(), SuiteParams{}, cases, nil, nil)
	assert.Error(t, err)
}
