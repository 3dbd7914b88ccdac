// Package client performs the HTTP calls of the contract tests. Every call is described by a
// callspec.Spec that travels with it, and the response can be checked against that same Spec
// with Verify.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/simplebooks/books-contract-tests/callspec"
	"github.com/simplebooks/books-contract-tests/framework"
)

const DefaultTimeout = time.Second * 10

// Options contains options for New.
type Options struct {
	// Timeout bounds each call; zero means DefaultTimeout.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing calls; zero means unlimited.
	RequestsPerSecond float64
	// HTTPClient replaces the default transport, mainly for tests.
	HTTPClient *http.Client
}

// Client sends requests to the API under test.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  framework.Logger
}

// Request is one call to make.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Token is sent as a bearer credential when non-empty.
	Token string
	// Body is encoded as JSON. It is ignored if RawBody is defined.
	Body interface{}
	// RawBody is sent verbatim, so that malformed payloads can be tested.
	RawBody ldvalue.OptionalString
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	c := &Client{http: httpClient, logger: framework.NullLogger()}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// WithLogger returns a Client that shares the transport and pacing of c but writes its
// request log to logger, normally the debug logger of the current test.
func (c *Client) WithLogger(logger framework.Logger) *Client {
	if logger == nil {
		logger = framework.NullLogger()
	}
	ret := *c
	ret.logger = logger
	return &ret
}

// Do sends the request described by req to the endpoint of spec. Only transport failures are
// errors; any status code is returned in the Response for the caller to check.
func (c *Client) Do(ctx context.Context, spec callspec.Spec, req Request) (*Response, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	target, err := spec.URL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch {
	case req.RawBody.IsDefined():
		payload = []byte(req.RawBody.StringValue())
	case req.Body != nil:
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("cannot encode request body: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	hr, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Accept", "application/json")
	if payload != nil {
		hr.Header.Set("Content-Type", spec.Defaults.ContentType)
	}
	if req.Token != "" {
		hr.Header.Set("Authorization", "Bearer "+req.Token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("request pacing interrupted: %w", err)
		}
	}

	if payload != nil {
		c.logger.Printf("%s %s (expecting %s)\n%s", method, target, spec.Expect, payload)
	} else {
		c.logger.Printf("%s %s (expecting %s)", method, target, spec.Expect)
	}
	started := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		c.logger.Printf("%s %s failed: %s", method, target, err)
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read response body: %w", err)
	}
	c.logger.Printf("Response %d in %s\n%s", resp.StatusCode, time.Since(started).Round(time.Millisecond), data)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
