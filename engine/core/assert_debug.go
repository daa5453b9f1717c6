//go:build !release

package core

// AssertionsEnabled reports whether Assert checks its condition.
const AssertionsEnabled = true
