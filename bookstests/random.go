package bookstests

import (
	"fmt"
	"math/rand"
)

// randomString returns n random lowercase ASCII letters.
func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rand.Intn(26))
	}
	return string(b)
}

// randomEmail returns an address that is valid and, for practical purposes, not registered yet.
func randomEmail() string {
	return fmt.Sprintf("%s@%s.%s", randomString(16), randomString(10), randomString(2))
}
