// Copyright 2026 The GoXIR Authors. SPDX-License-Identifier: Apache-2.0

package runtime

import "github.com/pkg/errors"

// Failure taxonomy of the registries. Compare with errors.Is; the dynamic
// messages carry the runtime name and context.
var (
	// ErrUnknownRuntime is reported by lookups for a runtime name with no
	// usable registration.
	ErrUnknownRuntime = errors.New("unknown runtime")

	// ErrDuplicateRegistration is reported by registries configured to
	// reject re-registration of a runtime name.
	ErrDuplicateRegistration = errors.New("runtime already registered")

	// ErrArityMismatch is reported by a ComputeFunc invoked with buffer
	// counts that do not match the tensor-name lists it was built with.
	ErrArityMismatch = errors.New("tensor arity mismatch")

	// ErrConstruction tags a failure inside a registered implementation
	// while building a module or compute function. The backend-specific
	// cause is wrapped alongside it.
	ErrConstruction = errors.New("construction failed")
)
