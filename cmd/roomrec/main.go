// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package main is the entry point for the roomrec command line tool.
//
// Roomrec reads a recommendation request as JSON, runs the four sales
// flows over it, and writes the recommendation response as JSON. It is
// designed to sit behind a booking engine as a batch or pipe stage:
//
//	roomrec -input request.json -output response.json
//	cat request.json | roomrec > response.json
//
// # Configuration
//
// Configuration is loaded via Koanf with layered sources (highest
// priority wins):
//   - Environment variables (ROOMREC_ prefix)
//   - Config file (-config flag, ROOMREC_CONFIG, or config.yaml)
//   - Built-in defaults
//
// # Booking history
//
// When the request carries no bookingHistoryList and the history store
// is enabled, the snapshot for the configured property is loaded from
// the local Badger database. A snapshot is imported with:
//
//	roomrec -import-history history.json -property BERLIN-01
//
// # External scoring collaborator
//
// When collaborator.enabled is set, the matching flow blends scores
// from the configured HTTP scoring service. The client is rate limited
// and wrapped in a circuit breaker; collaborator failures degrade to
// in-house scoring and never fail the request.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/javinobile/Gauvendi-sub009/internal/config"
	"github.com/javinobile/Gauvendi-sub009/internal/history"
	"github.com/javinobile/Gauvendi-sub009/internal/logging"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/aiscore"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/engine"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (default: search standard locations)")
		inputPath     = flag.String("input", "", "request JSON file (default: stdin)")
		outputPath    = flag.String("output", "", "response JSON file (default: stdout)")
		property      = flag.String("property", "", "property code for history lookup (default: history.property)")
		importHistory = flag.String("import-history", "", "import a booking history JSON file into the store and exit")
		showVersion   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("roomrec", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg, *inputPath, *outputPath, *property, *importHistory); err != nil {
		logging.Fatal().Err(err).Msg("roomrec failed")
	}
}

func run(cfg *config.Config, inputPath, outputPath, property, importPath string) error {
	if property == "" {
		property = cfg.History.Property
	}

	var store *history.Store
	if cfg.History.Enabled || importPath != "" {
		var err error
		store, err = history.Open(history.Options{
			Path: cfg.History.Path,
			TTL:  cfg.History.TTL,
		})
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing history store")
			}
		}()
	}

	if importPath != "" {
		return importSnapshot(store, property, importPath)
	}

	req, err := readRequest(inputPath)
	if err != nil {
		return err
	}

	// A request without its own history falls back to the stored
	// snapshot for the property. A missing snapshot is not an error;
	// the flows score without popularity input.
	if len(req.History) == 0 && store != nil && property != "" {
		items, err := store.LoadSnapshot(property)
		switch {
		case err == nil:
			req.History = items
			logging.Debug().
				Str("property", property).
				Int("items", len(items)).
				Msg("Loaded booking history snapshot")
		case errors.Is(err, history.ErrNotFound):
			logging.Debug().Str("property", property).Msg("No booking history snapshot")
		default:
			return fmt.Errorf("load history snapshot: %w", err)
		}
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	resp, err := eng.Recommend(context.Background(), req)
	if err != nil {
		return err
	}

	return writeResponse(outputPath, resp)
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	var opts []engine.Option
	if cfg.Collaborator.Enabled {
		scorer, err := aiscore.NewHTTPScorer(aiscore.HTTPConfig{
			Endpoint:          cfg.Collaborator.Endpoint,
			APIKey:            cfg.Collaborator.APIKey,
			Timeout:           cfg.Collaborator.Timeout,
			RequestsPerSecond: cfg.Collaborator.RequestsPerSecond,
			FailureThreshold:  cfg.Collaborator.FailureThreshold,
			CooldownPeriod:    cfg.Collaborator.CooldownPeriod,
		}, logging.Logger())
		if err != nil {
			return nil, fmt.Errorf("build collaborator: %w", err)
		}
		opts = append(opts, engine.WithCollaborator(scorer))
		logging.Info().Str("endpoint", cfg.Collaborator.Endpoint).Msg("Scoring collaborator enabled")
	}

	eng, err := engine.New(cfg.EngineConfig(), logging.Logger(), opts...)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return eng, nil
}

func importSnapshot(store *history.Store, property, path string) error {
	if property == "" {
		return fmt.Errorf("a property code is required to import history")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}

	var items []recommend.BookingHistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("parse history file: %w", err)
	}

	if err := store.SaveSnapshot(property, items); err != nil {
		return fmt.Errorf("save history snapshot: %w", err)
	}

	logging.Info().
		Str("property", property).
		Int("items", len(items)).
		Msg("Imported booking history snapshot")
	return nil
}

func readRequest(path string) (recommend.Request, error) {
	var req recommend.Request

	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open request file: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only file
		r = f
	}

	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("parse request: %w", err)
	}
	return req, nil
}

func writeResponse(path string, resp *recommend.Response) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create response file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing response file")
			}
		}()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
