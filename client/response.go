package client

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into target.
func (r *Response) Decode(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("malformed response body: %w (body: %s)", err, r.Body)
	}
	return nil
}

// Value returns the body as a generic JSON value, or ldvalue.Null() if it is not valid JSON.
func (r *Response) Value() ldvalue.Value {
	return ldvalue.Parse(r.Body)
}

// Field returns one top-level property of a JSON object body.
func (r *Response) Field(name string) ldvalue.Value {
	return r.Value().GetByKey(name)
}

// ErrorMessage is the "error" property that the API puts in every failure response.
func (r *Response) ErrorMessage() string {
	return r.Field("error").StringValue()
}
