package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

var envFileKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Escapes for a double-quoted dotenv value, in the form godotenv reads back.
var envFileEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	`"`, `\"`,
	`!`, `\!`,
	`$`, `\$`,
	"`", "\\`",
)

// EnvFileBackend stores the snapshot as a dotenv file: one KEY="value" line per entry, sorted
// by key. The whole file is rewritten on every Save. There is no locking.
//
// Keys must be dotenv identifiers. A value may not end in a backslash or a double quote,
// since godotenv cannot read those back.
type EnvFileBackend struct {
	path string
}

func NewEnvFileBackend(path string) *EnvFileBackend {
	return &EnvFileBackend{path: path}
}

func (b *EnvFileBackend) Path() string {
	return b.path
}

func (b *EnvFileBackend) Load(ctx context.Context) (map[string]string, error) {
	entries, err := godotenv.Read(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}
	return entries, nil
}

func (b *EnvFileBackend) Save(ctx context.Context, entries map[string]string) error {
	content, err := marshalEnvFile(entries)
	if err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", b.path, err)
		}
	}
	if err := os.WriteFile(b.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	return nil
}

// marshalEnvFile renders entries and checks that godotenv parses the result back to exactly
// the same entries.
func marshalEnvFile(entries map[string]string) (string, error) {
	keys := make([]string, 0, len(entries))
	for key, value := range entries {
		if !envFileKey.MatchString(key) {
			return "", fmt.Errorf("key %q is not a valid dotenv name", key)
		}
		if strings.HasSuffix(value, `\`) || strings.HasSuffix(value, `"`) {
			return "", fmt.Errorf("value of %s cannot end with a backslash or a double quote", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&buf, "%s=\"%s\"\n", key, envFileEscaper.Replace(entries[key]))
	}
	content := buf.String()

	parsed, err := godotenv.Unmarshal(content)
	if err != nil {
		return "", fmt.Errorf("entries do not form a valid dotenv file: %w", err)
	}
	for _, key := range keys {
		if parsed[key] != entries[key] {
			return "", fmt.Errorf("value of %s does not survive dotenv encoding", key)
		}
	}
	if len(parsed) != len(entries) {
		return "", errors.New("entries do not survive dotenv encoding")
	}
	return content, nil
}
