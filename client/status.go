package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/simplebooks/books-contract-tests/servicedef"
)

const maxStatusInterval = time.Second * 2

// AwaitStatus polls the status resource of the API at baseURL until it answers, so that a run
// started together with the service does not fail its first tests. Only connection failures are
// retried; a response with any status other than 200 is an error. Each attempt goes through the
// client's transport and is bounded by its request timeout.
func (c *Client) AwaitStatus(ctx context.Context, baseURL string, timeout time.Duration, output io.Writer) (servicedef.Status, error) {
	statusURL := strings.TrimSuffix(baseURL, "/") + "/status"
	fmt.Fprintf(output, "Connecting to %s", statusURL)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = time.Millisecond * 100
	backoffCfg.MaxInterval = maxStatusInterval

	for {
		fmt.Fprintf(output, ".")
		status, err := c.queryStatus(ctx, statusURL)
		if err == nil {
			fmt.Fprintf(output, "\nStatus: %s\n", status.Status)
			return status, nil
		}
		if _, ok := err.(*statusError); ok {
			fmt.Fprintln(output)
			return servicedef.Status{}, err
		}
		sleep := backoffCfg.NextBackOff()
		if sleep == backoff.Stop {
			sleep = maxStatusInterval
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return servicedef.Status{}, fmt.Errorf("timed out, result of last query was: %w", err)
		case <-time.After(sleep):
		}
	}
}

type statusError struct {
	statusCode int
	body       []byte
}

func (e *statusError) Error() string {
	if e.statusCode == 0 {
		return string(e.body)
	}
	return fmt.Sprintf("status resource returned HTTP %d: %s", e.statusCode, e.body)
}

func (c *Client) queryStatus(ctx context.Context, statusURL string) (servicedef.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return servicedef.Status{}, &statusError{body: []byte(err.Error())}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return servicedef.Status{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return servicedef.Status{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return servicedef.Status{}, &statusError{statusCode: resp.StatusCode, body: data}
	}
	r := Response{StatusCode: resp.StatusCode, Body: data}
	var status servicedef.Status
	if err := r.Decode(&status); err != nil {
		return servicedef.Status{}, &statusError{statusCode: resp.StatusCode, body: data}
	}
	return status, nil
}
