// Package bookstests contains the Simple Books API contract tests themselves and their
// supporting API.
//
// The test cases form one ordered sequence. Values that later cases need, such as access
// tokens and the id of the order under test, are passed along through the state package, so
// a case can also be run on its own: fixtures create whatever it needs if nothing has been
// recorded yet.
//
// Test harness infrastructure that is not specific to this API, such as running tests and
// collecting their results, is in the lower-level framework package.
package bookstests
