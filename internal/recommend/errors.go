// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package recommend

import "errors"

// ErrInvalidInput indicates a malformed or missing required request field.
// It is returned before any scoring takes place.
var ErrInvalidInput = errors.New("invalid input")

// ErrProcessFailure indicates an internal invariant violation during
// scoring, allocation, or optimization. A failure inside one flow is
// absorbed by the engine and never aborts sibling flows.
var ErrProcessFailure = errors.New("process failure")
