package bookstests

import (
	"net/http"
	"strconv"

	"github.com/stretchr/testify/require"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/servicedef"
)

// Fixtures return a value that an earlier test case normally records. If the entry is
// missing, for instance because only a filtered subset of the suite is being run, they create
// it through the API and record it, so that a test case never depends on running after the
// one that would have set it up.

func accessToken(t *T) string {
	return tokenFixture(t, KeyAccessToken)
}

func otherAccessToken(t *T) string {
	return tokenFixture(t, KeyOtherAccessToken)
}

func tokenFixture(t *T, key string) string {
	if token, ok := t.lookupEnv(key); ok {
		return token
	}
	t.Debug("no %s recorded, registering a new API client", key)
	token := registerClient(t)
	t.SetEnv(key, token)
	return token
}

// registerClient registers an API client with a random name and email and returns its token.
func registerClient(t *T) string {
	resp := t.Call(t.Spec(http.StatusCreated, schemas.Token), client.Request{
		Method: http.MethodPost,
		Path:   "/api-clients",
		Body:   servicedef.Client{ClientName: randomString(10), ClientEmail: randomEmail()},
	})
	var token servicedef.Token
	t.Decode(resp, &token)
	return token.AccessToken
}

func availableBookID(t *T) int {
	return bookIDFixture(t, KeyFirstAvailableBookID, firstAvailableBookID)
}

func unavailableBookID(t *T) int {
	return bookIDFixture(t, KeyFirstUnavailableBookID, firstUnavailableBookID)
}

func bookIDFixture(t *T, key string, find func(*T) int) int {
	if value, ok := t.lookupEnv(key); ok {
		id, err := strconv.Atoi(value)
		require.NoError(t, err, "environment entry %q should be a book id, was %q", key, value)
		return id
	}
	t.Debug("no %s recorded, looking it up", key)
	id := find(t)
	t.SetEnv(key, id)
	return id
}

// currentOrder returns the id of the order that the order tests work on, creating one if
// none is recorded.
func currentOrder(t *T) string {
	if id, ok := t.lookupEnv(KeyOrderID); ok {
		return id
	}
	t.Debug("no %s recorded, creating an order", KeyOrderID)
	return createOrder(t)
}

// occupiedEmail returns an email that is already registered.
func occupiedEmail(t *T) string {
	if email, ok := t.lookupEnv(KeyOccupiedEmail); ok {
		return email
	}
	email := randomEmail()
	t.Call(t.Spec(http.StatusCreated, schemas.Token), client.Request{
		Method: http.MethodPost,
		Path:   "/api-clients",
		Body:   servicedef.Client{ClientName: randomString(10), ClientEmail: email},
	})
	t.SetEnv(KeyOccupiedEmail, email)
	return email
}
