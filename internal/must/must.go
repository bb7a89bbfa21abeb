// Package must provides error-or-panic helpers for command-line tools and
// tests.
//
// Adapted from https://github.com/janpfeifer/must
package must

import (
	"k8s.io/klog/v2"
)

// M logs and panics if err is not nil.
var M = func(err error) {
	if err != nil {
		klog.Errorf("Must not error: %+v\nPanicking ...\n\n", err)
		panic(err)
	}
}

// M1 checks that there is no error with M(err) and returns the value given.
func M1[T any](value T, err error) T {
	M(err)
	return value
}

// M2 checks that there is no error with M(err) and returns the values given.
func M2[T1 any, T2 any](value1 T1, value2 T2, err error) (T1, T2) {
	M(err)
	return value1, value2
}
