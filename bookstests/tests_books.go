package bookstests

import (
	"net/http"
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/servicedef"
)

// wrongBookType is a value of the type parameter that the API does not know.
const wrongBookType = "comics"

func statusAndBooksTests() []testCase {
	return []testCase{
		{0, "Preparatory function before all tests run",
			"Setting first available and first unavailable books identifiers. Not a real test.",
			func(t *T) {
				t.SetEnv(KeyFirstAvailableBookID, firstAvailableBookID(t))
				t.SetEnv(KeyFirstUnavailableBookID, firstUnavailableBookID(t))
			}},

		{1, "GET /status", "Shows the status of the API.", func(t *T) {
			resp := t.Call(t.Spec(http.StatusOK, schemas.Status), client.Request{Path: "/status"})
			assert.Equal(t, "OK", resp.Field("status").StringValue(), "Response body value check: status")
		}},

		{2, "GET /books", "Shows a list of all books.", func(t *T) {
			listBooks(t, nil)
		}},

		{3, "GET /books | type: fiction", "Shows a list of fiction books.", func(t *T) {
			requireBooksOfType(t, listBooks(t, servicedef.BookQuery{Type: servicedef.BookTypeFiction}.Values()),
				servicedef.BookTypeFiction)
		}},

		{4, "GET /books | type: non-fiction", "Shows a list of non-fiction books.", func(t *T) {
			requireBooksOfType(t, listBooks(t, servicedef.BookQuery{Type: servicedef.BookTypeNonFiction}.Values()),
				servicedef.BookTypeNonFiction)
		}},

		{5, "GET /books | wrong type",
			"Attempt to call GET /books method with nonexistent value of type parameter.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error),
					client.Request{Path: "/books", Query: url.Values{"type": {wrongBookType}}})
				t.RequireErrorMessage(resp, msgInvalidType)
			}},

		{6, "GET /books | empty type", "Calling GET /books method with empty value of type parameter.",
			func(t *T) {
				listBooks(t, url.Values{"type": {""}})
			}},

		{7, "GET /books | limit = 1", "Calling GET /books method with the value of limit parameter equal to 1.",
			func(t *T) { getBooksCorrectLimit(t, 1) }},

		{8, "GET /books | limit = 2", "Calling GET /books method with the value of limit parameter equal to 2.",
			func(t *T) { getBooksCorrectLimit(t, 2) }},

		{9, "GET /books | limit is current books number",
			"Calling GET /books method with the value of limit parameter equal to current books number.",
			func(t *T) {
				size := t.env.catalogSize
				books := listBooks(t, servicedef.BookQuery{Limit: ldvalue.NewOptionalInt(size)}.Values())
				assert.Len(t, books, size, "Books list length is current books number")
			}},

		{10, "GET /books | limit = 19",
			"Calling GET /books method with the value of limit parameter equal to 19 (the value preceding the maximum valid value of limit parameter).",
			func(t *T) { getBooksCorrectLimit(t, 19) }},

		{11, "GET /books | limit = 20",
			"Calling GET /books method with the value of limit parameter equal to 20 (the maximum valid value of limit parameter).",
			func(t *T) { getBooksCorrectLimit(t, 20) }},

		{12, "GET /books | limit = 21",
			"Attempt to call GET /books method with the value of limit parameter equal to 21 (the value above the maximum valid value of limit parameter).",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error),
					client.Request{Path: "/books", Query: servicedef.BookQuery{Limit: ldvalue.NewOptionalInt(21)}.Values()})
				t.RequireErrorMessage(resp, msgLimitTooLarge)
			}},

		{13, "GET /books | limit = 0", "Calling GET /books method with the value of limit parameter equal to 0.",
			func(t *T) {
				listBooks(t, servicedef.BookQuery{Limit: ldvalue.NewOptionalInt(0)}.Values())
			}},

		{14, "GET /books | limit = -1",
			"Attempt to call GET /books method with the value of limit parameter equal to -1 (negative value).",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusBadRequest, schemas.Error),
					client.Request{Path: "/books", Query: servicedef.BookQuery{Limit: ldvalue.NewOptionalInt(-1)}.Values()})
				t.RequireErrorMessage(resp, msgLimitNegative)
			}},

		{15, "GET /books | limit = 2.5",
			"Calling GET /books method with the value of limit parameter equal to 2.5 (fractional number). Fractional part is expected to be ignored.",
			func(t *T) {
				books := listBooks(t, url.Values{"limit": {"2.5"}})
				if len(books) != 2 && len(books) != t.env.catalogSize {
					assert.Fail(t, "unexpected books list length",
						"Books list length is 2 or current books number (%d), but was %d", t.env.catalogSize, len(books))
				}
			}},

		{16, "GET /books | limit is not a number",
			"Calling GET /books method with non-numeric value of limit parameter. The non-numeric value is expected to be ignored.",
			func(t *T) {
				listBooks(t, url.Values{"limit": {"test"}})
			}},

		{17, "GET /books | Empty limit", "Calling GET /books method with empty value of limit parameter.",
			func(t *T) {
				listBooks(t, url.Values{"limit": {""}})
			}},

		{18, "GET /books | type: fiction & limit = 2", "Shows only first two fiction books.", func(t *T) {
			books := listBooks(t, servicedef.BookQuery{
				Type:  servicedef.BookTypeFiction,
				Limit: ldvalue.NewOptionalInt(2),
			}.Values())
			assert.Len(t, books, 2, "Books list length is 2")
			requireBooksOfType(t, books, servicedef.BookTypeFiction)
		}},

		{19, "GET /books | type: non-fiction & limit = 1", "Show the first non-fiction book.", func(t *T) {
			books := listBooks(t, servicedef.BookQuery{
				Type:  servicedef.BookTypeNonFiction,
				Limit: ldvalue.NewOptionalInt(1),
			}.Values())
			assert.Len(t, books, 1, "Books list length is 1")
			requireBooksOfType(t, books, servicedef.BookTypeNonFiction)
		}},

		{20, "GET /books | id", "Shows detailed information about book with passed identifier.", func(t *T) {
			book := getBook(t, "1")
			assert.Equal(t, 1, book.ID, "Book id is 1")
		}},

		{21, "GET /books | id is out of range",
			"Attempt to call GET /books method with the value of id parameter out of valid values range.",
			func(t *T) { getBooksIncorrectID(t, 100) }},

		{22, "GET /books | id = 0", "Attempt to call GET /books method with the value of id parameter equal to 0.",
			func(t *T) { getBooksIncorrectID(t, 0) }},

		{23, "GET /books | id = 2.5",
			"Calling GET /books method with the value of id parameter equal to 2.5 (fractional number). Fractional part is expected to be ignored.",
			func(t *T) {
				book := getBook(t, "2.5")
				assert.Equal(t, 2, book.ID, "Book id is 2")
			}},

		{24, "GET /books | id = -1",
			"Attempt to call GET /books method with the value of id parameter equal to -1 (negative value).",
			func(t *T) { getBooksIncorrectID(t, -1) }},

		{25, "GET /books | id is text", "Attempt to call GET /books method with non-numeric value of id parameter.",
			func(t *T) {
				resp := t.Call(t.Spec(http.StatusNotFound, schemas.Error), client.Request{Path: bookPath("test")})
				t.RequireErrorMessage(resp, "No book with id NaN")
			}},
	}
}

func requireBooksOfType(t *T, books []servicedef.Book, kind string) {
	for _, book := range books {
		require.Equal(t, kind, book.Type, "Checking all \"type\" keys for having %q value", kind)
	}
}

func getBook(t *T, id string) servicedef.SingleBook {
	resp := t.Call(t.Spec(http.StatusOK, schemas.SingleBook), client.Request{Path: bookPath(id)})
	var book servicedef.SingleBook
	t.Decode(resp, &book)
	return book
}
