// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

// Package engine orchestrates the recommendation flows. One Recommend
// call runs the most-popular, tip, direct, and (when features are
// requested) feature-match flows in order, feeding each flow's picks
// into the next flow's exclusion sets so no combination is offered
// twice.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/javinobile/Gauvendi-sub009/internal/metrics"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/aiscore"
	"github.com/javinobile/Gauvendi-sub009/internal/recommend/scoring"
	"github.com/javinobile/Gauvendi-sub009/internal/validation"
)

// Engine runs recommendation flows over caller-supplied data. It holds
// no per-request state and is safe for concurrent use.
type Engine struct {
	cfg          *recommend.Config
	logger       zerolog.Logger
	scorer       *scoring.Scorer
	collaborator aiscore.Scorer

	// runFlowFn executes one flow. Indirected so tests can inject
	// failing flows against the isolation guarantees.
	runFlowFn func(ctx context.Context, st *flowState) (recommend.FlowResult, []picked, error)
}

// Option customizes engine construction.
type Option func(*Engine)

// WithCollaborator installs the external scoring collaborator consulted
// by the feature-match flow. The collaborator is best-effort only.
func WithCollaborator(s aiscore.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.collaborator = s
		}
	}
}

// New creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *recommend.Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		cfg:          cfg.Clone(),
		logger:       logger.With().Str("component", "engine").Logger(),
		scorer:       scoring.NewScorer(cfg.Scoring),
		collaborator: aiscore.Noop{},
	}
	e.runFlowFn = e.runFlow
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// picked records one offered combination for cross-flow exclusion.
type picked struct {
	codes []string
	price float64
}

// Recommend runs every applicable flow over the request and merges the
// per-flow results. A failing flow yields an empty result for that flow
// only; sibling flows still run.
func (e *Engine) Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	start := time.Now()

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, fmt.Errorf("%w: %s", recommend.ErrInvalidInput, verr.Error())
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := e.logger.With().Str("request_id", requestID).Logger()

	rooms := sortedRooms(req.Rooms)

	flows := []recommend.Flow{recommend.FlowMostPopular, recommend.FlowTip, recommend.FlowDirect}
	if len(req.Features) > 0 {
		flows = append(flows, recommend.FlowMatch)
	}

	aiScores := e.consultCollaborator(ctx, log, req, rooms, flows)

	// Exclusion sets grow as flows pick combinations.
	usedCombos := make([][]string, 0, len(req.ExcludeCombinations)+len(flows)*e.cfg.Flows.OptionCount)
	usedCombos = append(usedCombos, req.ExcludeCombinations...)
	usedPrices := make([]float64, 0, len(req.ExcludeBasePrices)+len(flows)*e.cfg.Flows.OptionCount)
	usedPrices = append(usedPrices, req.ExcludeBasePrices...)

	resp := &recommend.Response{
		Flows: make(map[string]recommend.FlowResult, len(flows)),
	}
	flowsRun := make([]string, 0, len(flows))

	for _, flow := range flows {
		st := e.newFlowState(flow, rooms, req, aiScores, usedCombos, usedPrices)

		flowStart := time.Now()
		result, picks := e.runFlowSafe(ctx, log, st)
		resp.Flows[flow.String()] = result
		metrics.ObserveFlow(flow.String(), len(result.Options), time.Since(flowStart))

		if len(result.Options) > 0 {
			flowsRun = append(flowsRun, flow.String())
		}
		for _, p := range picks {
			usedCombos = append(usedCombos, p.codes)
			usedPrices = append(usedPrices, p.price)
		}
	}

	resp.Tips = e.buildTips(resp, req.Products)
	resp.Metadata = recommend.ResponseMetadata{
		RequestID: requestID,
		FlowsRun:  flowsRun,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC(),
	}

	metrics.ObserveRequest(time.Since(start))
	log.Debug().
		Strs("flows_run", flowsRun).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// runFlowSafe runs one flow, absorbing panics and errors into an empty
// flow result so one failing flow never takes down its siblings.
func (e *Engine) runFlowSafe(ctx context.Context, log zerolog.Logger, st *flowState) (result recommend.FlowResult, picks []picked) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordFlowFailure(st.flow.String())
			log.Error().
				Str("flow", st.flow.String()).
				Interface("panic", r).
				Msg("flow panicked")
			result = emptyFlowResult()
			picks = nil
		}
	}()

	result, picks, err := e.runFlowFn(ctx, st)
	if err != nil {
		metrics.RecordFlowFailure(st.flow.String())
		log.Error().
			Err(fmt.Errorf("%w: %v", recommend.ErrProcessFailure, err)).
			Str("flow", st.flow.String()).
			Msg("flow failed")
		return emptyFlowResult(), nil
	}
	return result, picks
}

func emptyFlowResult() recommend.FlowResult {
	return recommend.FlowResult{Options: map[string]recommend.Option{}}
}

// sortedRooms copies the requests, pins each one's caller slot index,
// and orders them pets-first, then children, then adults descending so
// scarce-constraint parties get first claim on constrained inventory.
func sortedRooms(rooms []recommend.RoomRequest) []recommend.RoomRequest {
	out := make([]recommend.RoomRequest, len(rooms))
	copy(out, rooms)
	for i := range out {
		out[i].SlotIndex = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pets != out[j].Pets {
			return out[i].Pets > out[j].Pets
		}
		if out[i].Children != out[j].Children {
			return out[i].Children > out[j].Children
		}
		return out[i].Adults > out[j].Adults
	})
	return out
}

// consultCollaborator fetches external similarity scores when the
// feature-match flow will run. Failures are logged and absorbed; the
// match flow falls back to the in-house score path.
func (e *Engine) consultCollaborator(ctx context.Context, log zerolog.Logger, req recommend.Request, rooms []recommend.RoomRequest, flows []recommend.Flow) map[int]map[string]aiscore.Result {
	if !e.cfg.Collaborator.Enabled {
		return nil
	}
	matchRuns := false
	for _, f := range flows {
		if f == recommend.FlowMatch {
			matchRuns = true
			break
		}
	}
	if !matchRuns {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Collaborator.Timeout)
	defer cancel()

	scores, err := e.collaborator.Score(callCtx, rooms, req.Products)
	if err != nil {
		metrics.RecordCollaborator("error")
		log.Warn().
			Err(err).
			Str("collaborator", e.collaborator.Name()).
			Msg("scoring collaborator unavailable, using in-house scores")
		return nil
	}
	metrics.RecordCollaborator("ok")
	return scores
}

// buildTips scans the offered options for allocation inefficiencies
// worth surfacing to the caller. Tips are informational only.
func (e *Engine) buildTips(resp *recommend.Response, products []recommend.Product) []string {
	byCode := make(map[string]recommend.Product, len(products))
	for _, p := range products {
		byCode[p.Code] = p
	}

	seen := make(map[string]struct{})
	var tips []string
	for _, flowResult := range resp.Flows {
		for _, opt := range flowResult.Options {
			for _, item := range opt.Items {
				p, ok := byCode[item.Code]
				if !ok || p.Bedrooms < 2 {
					continue
				}
				guests := item.AllocatedDefault.Guests() + item.AllocatedExtra.Guests()
				if guests == 0 || float64(guests)/float64(p.Bedrooms) > 0.5 {
					continue
				}
				if _, dup := seen[p.Code]; dup {
					continue
				}
				seen[p.Code] = struct{}{}
				tips = append(tips, fmt.Sprintf(
					"product %s offers %d bedrooms for %d guests; a smaller unit may fit better",
					p.Code, p.Bedrooms, guests))
			}
		}
	}
	sort.Strings(tips)
	return tips
}
