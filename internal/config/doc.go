// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package config loads and validates the application configuration.
//
// Configuration is layered with koanf, later layers winning: struct
// defaults, an optional YAML file, then ROOMREC_-prefixed environment
// variables. The file is located through an explicit path, the
// ROOMREC_CONFIG environment variable, or the default search paths.
//
// The engine parameters live in their own section and are handed to
// the engine verbatim; the surrounding sections configure logging, the
// external scoring collaborator, and the booking-history store.
package config
