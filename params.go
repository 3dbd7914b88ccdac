package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/simplebooks/books-contract-tests/config"
	"github.com/simplebooks/books-contract-tests/framework"
)

type commandParams struct {
	configPath string
	config     config.Config
	filters    framework.RegexFilters
	resetState bool
	debug      bool
	debugAll   bool
	list       bool

	// setFlags records which settings came from the command line, so they can be repeated in a
	// re-run command.
	setFlags map[string]string
}

// Read parses the command line. Settings from the -config file are applied first, and any flag
// given explicitly overrides them.
func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	var (
		serviceURL  string
		stateKind   string
		statePath   string
		rate        float64
		catalogSize int
	)
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&serviceURL, "url", "", "base URL of the Simple Books API")
	fs.StringVar(&c.configPath, "config", "", "YAML file with settings; flags override it")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&stateKind, "state", "", "state backend: file, memory, sqlite, redis or postgres")
	fs.StringVar(&statePath, "state-path", "", "file for the file and sqlite state backends")
	fs.BoolVar(&c.resetState, "reset-state", false, "clear recorded state before running")
	fs.Float64Var(&rate, "rate", 0, "maximum requests per second (0 = unlimited)")
	fs.IntVar(&catalogSize, "catalog-size", 0, "number of books the API serves")
	fs.BoolVar(&c.list, "list", false, "list test names and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}

	c.config = config.Default()
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return false
		}
		c.config = cfg
	}

	c.setFlags = make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		c.setFlags[f.Name] = f.Value.String()
		switch f.Name {
		case "url":
			c.config.BaseURL = serviceURL
		case "state":
			c.config.State.Kind = stateKind
		case "state-path":
			c.config.State.Path = statePath
		case "rate":
			c.config.RequestsPerSecond = rate
		case "catalog-size":
			c.config.CatalogSize = catalogSize
		}
	})

	if c.list {
		return true
	}
	if err := c.config.Validate(); err != nil {
		fmt.Fprintf(errOut, "Invalid settings: %s (use -url or a -config file)\n", err)
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand returns a shell command that repeats this run for only the given tests.
func (c *commandParams) rerunCommand(program string, failed []framework.TestResult) string {
	var cmd commandBuilder
	cmd.add(program)
	for _, name := range []string{"config", "url", "state", "state-path", "rate", "catalog-size"} {
		if value, ok := c.setFlags[name]; ok {
			cmd.add("-"+name, value)
		}
	}
	if c.debug || c.debugAll {
		cmd.add("-debug")
	}
	var numbers []string
	for _, f := range failed {
		number, _, _ := strings.Cut(f.TestID.Name(), " ")
		if _, err := strconv.Atoi(number); err == nil {
			numbers = append(numbers, number)
		}
	}
	if len(numbers) != 0 {
		cmd.add("-run", "^("+strings.Join(numbers, "|")+") ")
	}
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
