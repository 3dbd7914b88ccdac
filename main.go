package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/simplebooks/books-contract-tests/bookstests"
	"github.com/simplebooks/books-contract-tests/callspec"
	"github.com/simplebooks/books-contract-tests/client"
	"github.com/simplebooks/books-contract-tests/framework"
	"github.com/simplebooks/books-contract-tests/schemas"
	"github.com/simplebooks/books-contract-tests/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	var params commandParams
	if !params.Read(args, errOut) {
		return 2
	}

	if params.list {
		for _, name := range bookstests.TestNames() {
			fmt.Fprintln(out, name)
		}
		return 0
	}

	cfg := params.config
	stateLogger := framework.PrefixedLogger(log.New(errOut, "", log.LstdFlags), "[state] ")

	backend, err := state.OpenBackend(ctx, cfg.State)
	if err != nil {
		fmt.Fprintf(errOut, "State store error: %s\n", err)
		return 1
	}
	store := state.NewStore(backend, stateLogger)
	defer func() { _ = store.Close() }()

	if params.resetState {
		if err := store.Reset(ctx); err != nil {
			fmt.Fprintf(errOut, "Could not reset state: %s\n", err)
			return 1
		}
	}

	fmt.Fprintln(out, describeState(backend))

	apiClient := client.New(cfg.ClientOptions())
	if _, err := apiClient.AwaitStatus(ctx, cfg.BaseURL, cfg.StatusTimeout, out); err != nil {
		fmt.Fprintf(errOut, "API error: %s\n", err)
		return 1
	}

	registry, err := schemas.NewRegistry()
	if err != nil {
		fmt.Fprintf(errOut, "Schema error: %s\n", err)
		return 1
	}

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)
	fmt.Fprintln(out, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	var filter framework.Filter
	if params.filters.IsDefined() {
		filter = params.filters.AsFilter
	}
	results, err := bookstests.RunTestSuite(ctx, bookstests.SuiteParams{
		Client:      apiClient,
		Store:       store,
		Registry:    registry,
		Defaults:    callspec.Defaults(cfg.BaseURL),
		CatalogSize: cfg.CatalogSize,
	}, filter, testLogger)
	if err != nil {
		fmt.Fprintf(errOut, "Test suite error: %s\n", err)
		return 1
	}

	printResults(out, results)
	if !results.OK() {
		fmt.Fprintf(out, "\nTo run only the failed tests again:\n  %s\n", params.rerunCommand(args[0], results.Failures))
		return 1
	}
	return 0
}

// describeState tells the user where values shared between test cases are kept.
func describeState(backend state.Backend) string {
	switch b := backend.(type) {
	case *state.EnvFileBackend:
		return "Recording state in " + b.Path()
	case *state.SQLiteBackend:
		return "Recording state in SQLite database " + b.Path()
	case *state.MemoryBackend:
		return "Recording state in memory for this run only"
	default:
		return fmt.Sprintf("Recording state in %T", backend)
	}
}
