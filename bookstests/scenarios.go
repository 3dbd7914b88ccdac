package bookstests

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/servicedef"
)

const (
	msgInvalidType      = "Invalid value for query parameter 'type'. Must be one of: fiction, non-fiction."
	msgLimitTooLarge    = "Invalid value for query parameter 'limit'. Cannot be greater than 20."
	msgLimitNegative    = "Invalid value for query parameter 'limit'. Must be greater than 0."
	msgClientName       = "Invalid or missing client name."
	msgClientEmail      = "Invalid or missing client email."
	msgClientRegistered = "API client already registered. Try a different email."
	msgMissingAuth      = "Missing Authorization header."
	msgBookID           = "Invalid or missing bookId."
	msgNotInStock       = "This book is not in stock. Try again later."
)

func msgNoBook(id int) string {
	return "No book with id " + strconv.Itoa(id)
}

func msgNoOrder(id string) string {
	return "No order with id " + id + "."
}

// listBooks fetches GET /books with the given raw query and checks it against the list contract.
func listBooks(t *T, query url.Values) []servicedef.Book {
	resp := t.Call(t.Spec(http.StatusOK, schemas.BooksList), client.Request{Path: "/books", Query: query})
	var books []servicedef.Book
	t.Decode(resp, &books)
	return books
}

// getBooksCorrectLimit checks that a valid limit yields either that many books or, if the
// catalog is smaller, the whole catalog.
func getBooksCorrectLimit(t *T, limit int) {
	books := listBooks(t, servicedef.BookQuery{Limit: ldvalue.NewOptionalInt(limit)}.Values())
	if len(books) != limit && len(books) != t.env.catalogSize {
		assert.Fail(t, "unexpected books list length",
			"Books list length is %d or current books number (%d), but was %d", limit, t.env.catalogSize, len(books))
	}
}

// getBooksIncorrectID checks the 404 for a book id that does not exist.
func getBooksIncorrectID(t *T, id int) {
	resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{Path: bookPath(id)})
	t.RequireErrorMessage(resp, msgNoBook(id))
}

// postAPIClientsWrongBody sends a raw registration body that must be rejected with 400.
func postAPIClientsWrongBody(t *T, body, expectedError string) {
	resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error), client.Request{
		Method:  http.MethodPost,
		Path:    "/api-clients",
		RawBody: ldvalue.NewOptionalString(body),
	})
	t.RequireErrorMessage(resp, expectedError)
}

// postAPIClientsWrongEmail registers a random name with an invalid email.
func postAPIClientsWrongEmail(t *T, email string) {
	resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error), client.Request{
		Method: http.MethodPost,
		Path:   "/api-clients",
		Body:   servicedef.Client{ClientName: randomString(10), ClientEmail: email},
	})
	t.RequireErrorMessage(resp, msgClientEmail)
}

// postOrdersWrongBody sends a raw order body, authorized, that must be rejected with 400.
func postOrdersWrongBody(t *T, body, expectedError string) {
	resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error), client.Request{
		Method:  http.MethodPost,
		Path:    "/orders",
		Token:   accessToken(t),
		RawBody: ldvalue.NewOptionalString(body),
	})
	t.RequireErrorMessage(resp, expectedError)
}

// postOrdersWrongBookID orders a book id that is out of the valid range.
func postOrdersWrongBookID(t *T, bookID int) {
	resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error), client.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Token:  accessToken(t),
		Body:   servicedef.RequestOrder{BookID: bookID, CustomerName: randomString(10)},
	})
	t.RequireErrorMessage(resp, msgBookID)
}

// firstBookID returns the id of the first listed book whose availability matches, or 0 if
// there is none.
func firstBookID(t *T, available bool) int {
	for _, book := range listBooks(t, nil) {
		if book.Available == available {
			return book.ID
		}
	}
	return 0
}

func firstAvailableBookID(t *T) int   { return firstBookID(t, true) }
func firstUnavailableBookID(t *T) int { return firstBookID(t, false) }

// createOrder orders the first available book, reads the order back and records everything
// later order tests compare against.
func createOrder(t *T) string {
	bookID := availableBookID(t)
	token := accessToken(t)
	order := servicedef.RequestOrder{BookID: bookID, CustomerName: randomString(10)}

	resp := t.Call(t.Spec(http.StatusCreated, schemas.CreatedOrder), client.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Token:  token,
		Body:   order,
	})
	var created servicedef.CreatedOrder
	t.Decode(resp, &created)
	assert.True(t, created.Created, "Response body value check: created")
	t.SetEnv(KeyBookID, bookID)
	t.SetEnv(KeyOrderID, created.OrderID)
	t.SetEnv(KeyCustomerName, order.CustomerName)

	detailed := getOrder(t, token, created.OrderID)
	assert.Equal(t, created.OrderID, detailed.ID, "Response body value check: id")
	assert.Equal(t, bookID, detailed.BookID, "Response body value check: bookId")
	assert.Equal(t, order.CustomerName, detailed.CustomerName, "Response body value check: customerName")
	t.SetEnv(KeyCreatedBy, detailed.CreatedBy)
	t.SetEnv(KeyQuantity, detailed.Quantity)
	t.SetEnv(KeyTimestamp, detailed.Timestamp)
	return created.OrderID
}

func getOrder(t *T, token, orderID string) servicedef.DetailedOrder {
	resp := t.Call(t.Spec(http.StatusOK, schemas.DetailedOrder), client.Request{Path: orderPath(orderID), Token: token})
	var detailed servicedef.DetailedOrder
	t.Decode(resp, &detailed)
	return detailed
}

// requireOrderUnchanged compares a fetched order with the recorded one; only customerName is
// expected to differ, and the caller passes the name it expects.
func requireOrderUnchanged(t *T, order servicedef.DetailedOrder, customerName string) {
	assert.Equal(t, t.Env(KeyOrderID), order.ID, "Response body value check: id")
	assert.Equal(t, t.EnvInt(KeyBookID), int64(order.BookID), "Response body value check: bookId")
	assert.Equal(t, customerName, order.CustomerName, "Response body value check: customerName")
	assert.Equal(t, t.Env(KeyCreatedBy), order.CreatedBy, "Response body value check: createdBy")
	assert.Equal(t, t.EnvInt(KeyQuantity), int64(order.Quantity), "Response body value check: quantity")
	assert.Equal(t, t.EnvInt(KeyTimestamp), order.Timestamp, "Response body value check: timestamp")
}
