// Package callspec describes what an HTTP call is expected to look like before it is made:
// where it goes, how its payload is encoded, and which status code and schema contract the
// response must satisfy.
//
// A Spec is a plain value. It is built once per call and handed to the client together with
// the request, so a call can never pick up the expectations of a previous one.
package callspec

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultContentType is the payload encoding used unless CallDefaults says otherwise.
const DefaultContentType = "application/json"

// ErrNoExpectation is returned for a Spec whose expectation was never filled in.
var ErrNoExpectation = errors.New("call specification has no expected status code")

// CallDefaults holds the request-side settings shared by every call to one API.
type CallDefaults struct {
	BaseURL     string
	ContentType string
}

// Defaults returns CallDefaults for the API at baseURL with a JSON payload.
func Defaults(baseURL string) CallDefaults {
	return CallDefaults{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		ContentType: DefaultContentType,
	}
}

// WithContentType returns a copy of d that sends payloads as contentType.
func (d CallDefaults) WithContentType(contentType string) CallDefaults {
	d.ContentType = contentType
	return d
}

// Expectation holds what the response must satisfy.
type Expectation struct {
	StatusCode int
	// Schema is the logical name of the schema contract for the body; empty means the body
	// is not checked.
	Schema string
}

// Expect returns an Expectation that requires the given status code.
func Expect(statusCode int) Expectation {
	return Expectation{StatusCode: statusCode}
}

// WithSchema returns a copy of e that also requires the body to match the named schema.
func (e Expectation) WithSchema(name string) Expectation {
	e.Schema = name
	return e
}

func (e Expectation) String() string {
	if e.Schema == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d, schema %q", e.StatusCode, e.Schema)
}

// Spec is the complete description of one call.
type Spec struct {
	Defaults CallDefaults
	Expect   Expectation
}

// New combines call defaults and an expectation.
func New(defaults CallDefaults, expect Expectation) Spec {
	return Spec{Defaults: defaults, Expect: expect}
}

// Validate reports whether the Spec can be used for a call.
func (s Spec) Validate() error {
	if s.Expect.StatusCode == 0 {
		return ErrNoExpectation
	}
	if s.Defaults.BaseURL == "" {
		return errors.New("call specification has no base URL")
	}
	return nil
}

// URL joins the base endpoint, path and query.
func (s Spec) URL(path string, query url.Values) (string, error) {
	base, err := url.Parse(s.Defaults.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", s.Defaults.BaseURL, err)
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := base.String() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

func (s Spec) String() string {
	return fmt.Sprintf("%s expecting %s", s.Defaults.BaseURL, s.Expect)
}
