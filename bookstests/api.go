package bookstests

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplebooks/books-contract-tests/callspec"
	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/framework"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/state"
)

// Environment entry keys.
const (
	KeyFirstAvailableBookID   = "firstAvailableBookId"
	KeyFirstUnavailableBookID = "firstUnavailableBookId"
	KeyAccessToken            = "accessToken"
	KeyOtherAccessToken       = "otherAccessToken"
	KeyOccupiedEmail          = "occupiedEmail"
	KeyBookID                 = "bookId"
	KeyOrderID                = "orderId"
	KeyCustomerName           = "customerName"
	KeyCreatedBy              = "createdBy"
	KeyQuantity               = "quantity"
	KeyTimestamp              = "timestamp"
)

// DefaultCatalogSize is the number of books the public API currently serves.
const DefaultCatalogSize = 6

type environment struct {
	ctx         context.Context
	client      *client.Client
	store       *state.Store
	registry    *schemas.Registry
	defaults    callspec.CallDefaults
	catalogSize int
}

// T represents one test case of the contract test suite.
//
// It implements the same basic functionality as Go's testing.T, on top of the lower-level
// framework package, so the assert and require packages can be used with a *T. It also gives
// the test access to the API under test and to the environment entries shared with the other
// test cases.
type T struct {
	context *framework.Context
	env     *environment
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Spec builds the call specification for a call that must answer with status. A schema name
// of "" means the body is not checked.
func (t *T) Spec(status int, schema string) callspec.Spec {
	return callspec.New(t.env.defaults, callspec.Expect(status).WithSchema(schema))
}

// Call makes one call to the API and checks the response against spec. If the status code
// or the schema contract is violated, the test fails and exits immediately, since nothing
// else about the response can then be trusted.
func (t *T) Call(spec callspec.Spec, req client.Request) *client.Response {
	resp, err := t.env.client.WithLogger(t.context.DebugLogger()).Do(t.env.ctx, spec, req)
	require.NoError(t, err, "%s %s", req.Method, req.Path)
	violations := client.Verify(t.env.registry, spec, resp)
	for _, v := range violations {
		t.Errorf("%s %s: %s", methodName(req.Method), req.Path, v)
	}
	if len(violations) != 0 {
		t.FailNow()
	}
	return resp
}

// Decode is Response.Decode for a body that has already passed its schema check.
func (t *T) Decode(resp *client.Response, target interface{}) {
	require.NoError(t, resp.Decode(target))
}

// RequireErrorMessage checks the "error" property of a failure response.
func (t *T) RequireErrorMessage(resp *client.Response, expected string) {
	assert.Equal(t, expected, resp.ErrorMessage(), "Response body value check: error")
}

// Env returns an environment entry, or "" if it is absent or the store cannot be read.
func (t *T) Env(key string) string {
	return t.env.store.Get(t.env.ctx, key)
}

// EnvInt returns an environment entry that must hold a whole number.
func (t *T) EnvInt(key string) int64 {
	value := t.Env(key)
	n, err := strconv.ParseInt(value, 10, 64)
	require.NoError(t, err, "environment entry %q should be a number, was %q", key, value)
	return n
}

// SetEnv records an environment entry for the following test cases. A store failure does
// not fail the test; the store has already reported it.
func (t *T) SetEnv(key string, value interface{}) {
	if err := t.env.store.Set(t.env.ctx, key, value); err != nil {
		t.Debug("could not record %s: %s", key, err)
	}
}

// lookupEnv distinguishes an entry that was never recorded from one that could not be read.
func (t *T) lookupEnv(key string) (string, bool) {
	value, err := t.env.store.Lookup(t.env.ctx, key)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			t.Debug("environment entry %s unavailable: %s", key, err)
		}
		return "", false
	}
	return value, value != ""
}

func methodName(method string) string {
	if method == "" {
		return "GET"
	}
	return method
}

func bookPath(id interface{}) string {
	return fmt.Sprintf("/books/%v", id)
}

func orderPath(id string) string {
	return "/orders/" + id
}
