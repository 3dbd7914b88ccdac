package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/simplebooks/books-contract-tests/servicedef"
)

const maxLimit = 20

const (
	msgInvalidType      = "Invalid value for query parameter 'type'. Must be one of: fiction, non-fiction."
	msgLimitTooLarge    = "Invalid value for query parameter 'limit'. Cannot be greater than 20."
	msgLimitNegative    = "Invalid value for query parameter 'limit'. Must be greater than 0."
	msgClientName       = "Invalid or missing client name."
	msgClientEmail      = "Invalid or missing client email."
	msgClientRegistered = "API client already registered. Try a different email."
	msgMissingAuth      = "Missing Authorization header."
	msgInvalidToken     = "Invalid bearer token."
	msgBookID           = "Invalid or missing bookId."
	msgCustomerName     = "Invalid or missing customerName."
	msgNotInStock       = "This book is not in stock. Try again later."
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`)

type clientIDKey struct{}

// GetStatus handles GET /status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, servicedef.Status{Status: "OK"})
}

// ListBooks handles GET /books. An empty type is ignored. A limit that is empty, zero or not
// a number is ignored too, and a fractional one is truncated.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind := query.Get("type")
	if kind != "" && kind != servicedef.BookTypeFiction && kind != servicedef.BookTypeNonFiction {
		writeError(w, http.StatusBadRequest, msgInvalidType)
		return
	}
	limit, ok := parseLeadingInt(query.Get("limit"))
	switch {
	case !ok:
		limit = 0
	case limit > maxLimit:
		writeError(w, http.StatusBadRequest, msgLimitTooLarge)
		return
	case limit < 0:
		writeError(w, http.StatusBadRequest, msgLimitNegative)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Books(kind, limit))
}

// GetBook handles GET /books/{bookID}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "bookID")
	id, ok := parseLeadingInt(raw)
	if !ok {
		writeError(w, http.StatusNotFound, "No book with id NaN")
		return
	}
	book, found := h.store.Book(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No book with id %d", id))
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// RegisterClient handles POST /api-clients.
func (h *Handler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	fields := readObject(r)
	name, _ := stringField(fields, "clientName")
	if len(name) < 2 {
		writeError(w, http.StatusBadRequest, msgClientName)
		return
	}
	email, _ := stringField(fields, "clientEmail")
	if !emailPattern.MatchString(email) {
		writeError(w, http.StatusBadRequest, msgClientEmail)
		return
	}
	token, err := h.store.Register(name, email)
	if errors.Is(err, errEmailTaken) {
		writeError(w, http.StatusConflict, msgClientRegistered)
		return
	}
	h.logger.Info("client registered", "client_name", name)
	writeJSON(w, http.StatusCreated, servicedef.Token{AccessToken: token})
}

func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, msgMissingAuth)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		clientID, ok := h.store.ClientID(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIDKey{}, clientID)))
	})
}

func requestClientID(r *http.Request) string {
	id, _ := r.Context().Value(clientIDKey{}).(string)
	return id
}

// ListOrders handles GET /orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Orders(requestClientID(r)))
}

// CreateOrder handles POST /orders. A fractional bookId is truncated.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	fields := readObject(r)
	bookID, ok := numberField(fields, "bookId")
	if !ok {
		writeError(w, http.StatusBadRequest, msgBookID)
		return
	}
	exists, inStock := h.store.BookInStock(bookID)
	if !exists {
		writeError(w, http.StatusBadRequest, msgBookID)
		return
	}
	if !inStock {
		writeError(w, http.StatusNotFound, msgNotInStock)
		return
	}
	customerName, _ := stringField(fields, "customerName")
	if customerName == "" {
		writeError(w, http.StatusBadRequest, msgCustomerName)
		return
	}
	order := h.store.CreateOrder(requestClientID(r), bookID, customerName)
	writeJSON(w, http.StatusCreated, servicedef.CreatedOrder{Created: true, OrderID: order.ID})
}

// GetOrder handles GET /orders/{orderID}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	order, err := h.store.Order(requestClientID(r), id)
	if err != nil {
		writeOrderNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrder handles PATCH /orders/{orderID}. Only customerName is applied; any other
// property in the body is ignored.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	clientID := requestClientID(r)
	if _, err := h.store.Order(clientID, id); err != nil {
		writeOrderNotFound(w, id)
		return
	}
	customerName, _ := stringField(readObject(r), "customerName")
	if customerName == "" {
		writeError(w, http.StatusBadRequest, msgCustomerName)
		return
	}
	if err := h.store.RenameOrder(clientID, id, customerName); err != nil {
		writeOrderNotFound(w, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteOrder handles DELETE /orders/{orderID}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	if err := h.store.DeleteOrder(requestClientID(r), id); err != nil {
		writeOrderNotFound(w, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeOrderNotFound(w http.ResponseWriter, id string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("No order with id %s.", id))
}

// readObject decodes a JSON object body. A missing or malformed body reads as an empty object,
// so that it fails the same field validation as "{}".
func readObject(r *http.Request) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)
	if r.Body == nil {
		return fields
	}
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return fields
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return make(map[string]json.RawMessage)
	}
	return fields
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// numberField reads a JSON number property, truncated toward zero. Strings are not accepted,
// even if they contain digits.
func numberField(fields map[string]json.RawMessage, name string) (int, bool) {
	raw, ok := fields[name]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// parseLeadingInt reads an optional sign and the digits that follow it, ignoring anything after
// them, so "2.5" is 2. It fails if there are no digits.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n < math.MaxInt32/10 {
			n = n*10 + int(s[digits]-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
