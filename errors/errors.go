// Package errors provides error handling for histodriver.
//
// It re-exports github.com/cockroachdb/errors so the rest of the repo gets
// stack traces and error wrapping without importing the upstream module
// directly.
//
// Usage:
//
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	WithStack = crdb.WithStack
)

// User-facing messages
var (
	WithHint   = crdb.WithHint
	WithDetail = crdb.WithDetail
)

// Error inspection
var (
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)
