// Package schemas holds the JSON schema contracts that response bodies are checked against.
// Schemas are looked up by logical name, never by file location.
package schemas

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Logical schema names.
const (
	Status        = "status"
	Error         = "error"
	BooksList     = "books_list"
	SingleBook    = "single_book"
	Token         = "token"
	CreatedOrder  = "created_order"
	DetailedOrder = "detailed_order"
	OrdersList    = "orders_list"
)

const baseURL = "https://simple-books.schemas.local/"

//go:embed *.json
var files embed.FS

// Registry holds compiled schemas.
type Registry struct {
	schemas map[string]*jsonschema.Schema
}

// NewRegistry compiles every embedded schema.
func NewRegistry() (*Registry, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		data, err := files.ReadFile(e.Name())
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(baseURL+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("schema %q load failed: %w", name, err)
		}
		names = append(names, name)
	}

	r := &Registry{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		compiled, err := c.Compile(baseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("schema %q compile failed: %w", name, err)
		}
		r.schemas[name] = compiled
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for callers that cannot continue without schemas. The
// schemas are embedded, so a failure here is a build defect.
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the logical names of all known schemas, sorted.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Validate checks a JSON document against the named schema.
func (r *Registry) Validate(name string, body []byte) error {
	schema, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q, known schemas are %s", name, strings.Join(r.Names(), ", "))
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("body does not match schema %q: %w", name, err)
	}
	return nil
}
