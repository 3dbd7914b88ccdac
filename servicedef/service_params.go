// Package servicedef contains the request and response shapes of the Simple Books API.
package servicedef

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	BookTypeFiction    = "fiction"
	BookTypeNonFiction = "non-fiction"
)

type Status struct {
	Status string `json:"status"`
}

// Book is one entry of the books list.
type Book struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Available bool   `json:"available"`
}

// SingleBook is the detailed view of one book.
type SingleBook struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Author       string          `json:"author"`
	ISBN         string          `json:"isbn"`
	Type         string          `json:"type"`
	Price        Price           `json:"price"`
	CurrentStock int             `json:"current-stock"`
	Available    bool            `json:"available"`
}

// Price is a book price. The API writes it as a JSON number, while decimal.Decimal would be
// written as a string, so only marshaling is overridden.
type Price struct {
	decimal.Decimal
}

func NewPrice(value string) Price {
	return Price{decimal.RequireFromString(value)}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

// BookQuery holds the query parameters of GET /books. Limit is sent only if defined.
type BookQuery struct {
	Type  string
	Limit ldvalue.OptionalInt
}

func (q BookQuery) Values() url.Values {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Limit.IsDefined() {
		v.Set("limit", strconv.Itoa(q.Limit.IntValue()))
	}
	return v
}

// Client is the registration payload of POST /api-clients.
type Client struct {
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
}

type Token struct {
	AccessToken string `json:"accessToken"`
}

type RequestOrder struct {
	BookID       int    `json:"bookId"`
	CustomerName string `json:"customerName"`
}

type CreatedOrder struct {
	Created bool   `json:"created"`
	OrderID string `json:"orderId"`
}

type DetailedOrder struct {
	ID           string `json:"id"`
	BookID       int    `json:"bookId"`
	CustomerName string `json:"customerName"`
	CreatedBy    string `json:"createdBy"`
	Quantity     int    `json:"quantity"`
	Timestamp    int64  `json:"timestamp"`
}

// OrderPatch is the body of PATCH /orders/{id}. Only customerName is meant to be editable.
type OrderPatch struct {
	CustomerName string `json:"customerName"`
}

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}
