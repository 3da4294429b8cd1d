// Package runtimex contains helpers that panic on programmer errors,
// such as building a static endpoint catalog with a duplicate key.
package runtimex

import "fmt"

// PanicOnError calls panic() if err is not nil.
func PanicOnError(err error, message string) {
	if err != nil {
		panic(fmt.Errorf("%s: %w", message, err))
	}
}

// Assert calls panic with the given message if assertion is false.
func Assert(assertion bool, message string) {
	if !assertion {
		panic(message)
	}
}

// Try1 returns value or panics if err is not nil.
func Try1[T any](value T, err error) T {
	PanicOnError(err, "Try1")
	return value
}
