// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package aiscore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
)

// HTTPConfig configures the remote scoring collaborator.
type HTTPConfig struct {
	// Endpoint is the full URL of the scoring service.
	Endpoint string

	// APIKey, when set, is sent as a bearer token.
	APIKey string

	// Timeout bounds a single scoring call end to end.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero disables the limiter.
	RequestsPerSecond float64

	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32

	// CooldownPeriod is how long the breaker stays open before a probe.
	CooldownPeriod time.Duration
}

// DefaultHTTPConfig returns conservative production defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:           2 * time.Second,
		RequestsPerSecond: 10,
		FailureThreshold:  5,
		CooldownPeriod:    30 * time.Second,
	}
}

// scoreRequest is the wire request to the scoring service.
type scoreRequest struct {
	Rooms    []recommend.RoomRequest `json:"rooms"`
	Products []scoreProduct          `json:"products"`
}

// scoreProduct is the reduced product view the service needs.
type scoreProduct struct {
	Code     string   `json:"code"`
	Type     string   `json:"type"`
	Price    float64  `json:"price"`
	Features []string `json:"features,omitempty"`
	Bedrooms int      `json:"bedrooms,omitempty"`
}

// scoreResponse is the wire response from the scoring service.
type scoreResponse struct {
	Scores []scoreEntry `json:"scores"`
}

type scoreEntry struct {
	SlotIndex   int     `json:"slotIndex"`
	ProductCode string  `json:"productCode"`
	Score       float64 `json:"score"`
	Reasoning   string  `json:"reasoning,omitempty"`
}

// HTTPScorer calls an external scoring service over HTTP. Calls are rate
// limited and wrapped in a circuit breaker so a degraded service cannot
// slow down recommendation traffic.
type HTTPScorer struct {
	cfg     HTTPConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[map[int]map[string]Result]
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewHTTPScorer builds an HTTPScorer from cfg.
func NewHTTPScorer(cfg HTTPConfig, log zerolog.Logger) (*HTTPScorer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("aiscore: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultHTTPConfig().Timeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultHTTPConfig().FailureThreshold
	}
	if cfg.CooldownPeriod <= 0 {
		cfg.CooldownPeriod = DefaultHTTPConfig().CooldownPeriod
	}

	s := &HTTPScorer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.With().Str("component", "aiscore").Logger(),
	}

	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	s.breaker = gobreaker.NewCircuitBreaker[map[int]map[string]Result](gobreaker.Settings{
		Name:    "aiscore",
		Timeout: cfg.CooldownPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("scoring collaborator breaker state change")
		},
	})

	return s, nil
}

// Name returns the collaborator identifier.
func (s *HTTPScorer) Name() string { return "http" }

// Score calls the remote service once for the whole batch.
func (s *HTTPScorer) Score(ctx context.Context, rooms []recommend.RoomRequest, products []recommend.Product) (map[int]map[string]Result, error) {
	if len(rooms) == 0 || len(products) == 0 {
		return nil, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("aiscore: rate limit wait: %w", err)
		}
	}

	return s.breaker.Execute(func() (map[int]map[string]Result, error) {
		return s.call(ctx, rooms, products)
	})
}

func (s *HTTPScorer) call(ctx context.Context, rooms []recommend.RoomRequest, products []recommend.Product) (map[int]map[string]Result, error) {
	req := scoreRequest{Rooms: rooms, Products: make([]scoreProduct, 0, len(products))}
	for _, p := range products {
		req.Products = append(req.Products, scoreProduct{
			Code:     p.Code,
			Type:     p.Type,
			Price:    p.Price,
			Features: p.Features,
			Bedrooms: p.Bedrooms,
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("aiscore: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("aiscore: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("aiscore: call scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, fmt.Errorf("aiscore: scoring service returned %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("aiscore: decode response: %w", err)
	}

	out := make(map[int]map[string]Result, len(rooms))
	for _, e := range decoded.Scores {
		if e.SlotIndex < 0 || e.ProductCode == "" {
			continue
		}
		if e.Score < 0 {
			e.Score = 0
		} else if e.Score > 1 {
			e.Score = 1
		}
		slot := out[e.SlotIndex]
		if slot == nil {
			slot = make(map[string]Result)
			out[e.SlotIndex] = slot
		}
		slot[e.ProductCode] = Result{Score: e.Score, Reasoning: e.Reasoning}
	}
	return out, nil
}

var _ Scorer = (*HTTPScorer)(nil)
