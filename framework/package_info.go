// Package framework contains the low-level implementation of test harness infrastructure
// that does not know anything about the API under test.
//
// The general model is:
//
// 1. There is a notion of a test context which is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Assertions from testify's assert and require packages can be
// used against it directly.
//
// 2. Tests are organized as an ordered Sequence of numbered steps. Steps run one at a time,
// strictly in order; a failure in one step is recorded and the next step still runs.
//
// 3. Each test gets its own capturing debug logger, whose output can be shown for failed
// tests only or for all tests.
//
// The domain-specific code that knows what is being tested is responsible for building the
// sequence and for providing a test API on top of the test context.
package framework
