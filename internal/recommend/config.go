// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Scoring contains capacity and matching score parameters.
	Scoring ScoringConfig `json:"scoring"`

	// Preference contains per-flow preference score weights.
	Preference PreferenceConfig `json:"preference"`

	// Flows contains flow composition weights and output sizing.
	Flows FlowsConfig `json:"flows"`

	// Partition contains request-merge enumeration limits.
	Partition PartitionConfig `json:"partition"`

	// Optimizer contains combination search parameters.
	Optimizer OptimizerConfig `json:"optimizer"`

	// Collaborator contains the optional external scorer bounds.
	Collaborator CollaboratorConfig `json:"collaborator"`
}

// ScoringConfig contains capacity and matching score parameters.
type ScoringConfig struct {
	// FitWeight is the weight of the default-capacity fit component.
	// Default: 0.30.
	FitWeight float64 `json:"fit_weight"`

	// UseExtraWeight is the weight of the extra-capacity usage penalty.
	// Default: 0.25.
	UseExtraWeight float64 `json:"use_extra_weight"`

	// ExcessWeight is the weight of the unused-capacity penalty.
	// Default: 0.25.
	ExcessWeight float64 `json:"excess_weight"`

	// BedroomWeight is the weight of the bedroom-fit component.
	// Default: 0.20.
	BedroomWeight float64 `json:"bedroom_weight"`

	// PetZeroCapacityScore is the hard-filter score for products with no
	// pet capacity when pets are requested. Default: 0.01.
	PetZeroCapacityScore float64 `json:"pet_zero_capacity_score"`

	// PetUnsatisfiedScore is the score when pet capacity exists but the
	// allocation could not satisfy the request. Default: 0.10.
	PetUnsatisfiedScore float64 `json:"pet_unsatisfied_score"`

	// MatchedCapacityFloor is the minimum capacity score below which a
	// candidate is forcibly marked not matched. Default: 0.15.
	MatchedCapacityFloor float64 `json:"matched_capacity_floor"`

	// AIBlendWeight blends the in-house matching core against the
	// external collaborator score: core*w + ai*(1-w). Default: 0.5.
	AIBlendWeight float64 `json:"ai_blend_weight"`

	// MatchFeatureWeight is the feature-overlap share of the matching
	// core. Default: 0.6.
	MatchFeatureWeight float64 `json:"match_feature_weight"`

	// MatchPopularityWeight is the popularity share of the matching
	// core. Default: 0.4.
	MatchPopularityWeight float64 `json:"match_popularity_weight"`

	// SpaceTypePrefix marks space-type feature codes, which get the
	// highest overlap weight at priority zero. Default: "ST-".
	SpaceTypePrefix string `json:"space_type_prefix"`

	// PriceBandLow is the lower bound of the above-floor price band that
	// contributes to the preference score. Default: 0.10.
	PriceBandLow float64 `json:"price_band_low"`

	// PriceBandHigh is the upper bound of the contributing band.
	// Default: 0.50.
	PriceBandHigh float64 `json:"price_band_high"`

	// PriceBuffHigh is the upper bound of the mid-price band whose
	// members get the (1+ratio) preference buff. Default: 0.30.
	PriceBuffHigh float64 `json:"price_buff_high"`
}

// PreferenceWeights weighs the preference score inputs for one flow.
// Weights are caller configuration, never hardcoded in the scorer.
type PreferenceWeights struct {
	// History is the weight of normalized booking-history popularity.
	History float64 `json:"history"`

	// Feature is the weight of feature-match popularity.
	Feature float64 `json:"feature"`

	// Price is the weight of the price-proximity score.
	Price float64 `json:"price"`
}

// PreferenceConfig contains per-flow preference weights.
type PreferenceConfig struct {
	// MostPopular weighs the most-popular flow. Default: 0.5/0.3/0.2.
	MostPopular PreferenceWeights `json:"most_popular"`

	// Tip weighs the editorial-tip flow. Default: 0.3/0.5/0.2.
	Tip PreferenceWeights `json:"tip"`
}

// FlowsConfig contains flow composition weights and output sizing.
type FlowsConfig struct {
	// OptionCount is the number of diversified options per flow.
	// Default: 3.
	OptionCount int `json:"option_count"`

	// PopularCapacityWeight is the capacity share of the most-popular
	// and tip composites. Default: 0.5.
	PopularCapacityWeight float64 `json:"popular_capacity_weight"`

	// DirectCapacityWeight is the capacity share of the direct
	// composite; the remainder goes to price proximity. Default: 0.8.
	DirectCapacityWeight float64 `json:"direct_capacity_weight"`
}

// PartitionConfig contains request-merge enumeration limits.
type PartitionConfig struct {
	// MaxRanked caps how many ranked partitions survive validity
	// filtering. Default: 4.
	MaxRanked int `json:"max_ranked"`

	// PerClusterSize caps survivors per group-count bucket. Default: 2.
	PerClusterSize int `json:"per_cluster_size"`

	// MaxSlots disables merge enumeration above this request count to
	// bound Bell-number growth. Default: 8.
	MaxSlots int `json:"max_slots"`
}

// OptimizerConfig contains combination search parameters.
type OptimizerConfig struct {
	// TopK is the size of the branch-and-bound result buffer.
	// Default: 100.
	TopK int `json:"top_k"`
}

// CollaboratorConfig bounds the optional external scoring collaborator.
type CollaboratorConfig struct {
	// Enabled controls whether the collaborator is consulted at all.
	// Default: false.
	Enabled bool `json:"enabled"`

	// Timeout bounds a single collaborator call. Default: 2s.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			FitWeight:             0.30,
			UseExtraWeight:        0.25,
			ExcessWeight:          0.25,
			BedroomWeight:         0.20,
			PetZeroCapacityScore:  0.01,
			PetUnsatisfiedScore:   0.10,
			MatchedCapacityFloor:  0.15,
			AIBlendWeight:         0.5,
			MatchFeatureWeight:    0.6,
			MatchPopularityWeight: 0.4,
			SpaceTypePrefix:       "ST-",
			PriceBandLow:          0.10,
			PriceBandHigh:         0.50,
			PriceBuffHigh:         0.30,
		},
		Preference: PreferenceConfig{
			MostPopular: PreferenceWeights{History: 0.5, Feature: 0.3, Price: 0.2},
			Tip:         PreferenceWeights{History: 0.3, Feature: 0.5, Price: 0.2},
		},
		Flows: FlowsConfig{
			OptionCount:           3,
			PopularCapacityWeight: 0.5,
			DirectCapacityWeight:  0.8,
		},
		Partition: PartitionConfig{
			MaxRanked:      4,
			PerClusterSize: 2,
			MaxSlots:       8,
		},
		Optimizer: OptimizerConfig{
			TopK: 100,
		},
		Collaborator: CollaboratorConfig{
			Enabled: false,
			Timeout: 2 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	weightSum := c.Scoring.FitWeight + c.Scoring.UseExtraWeight +
		c.Scoring.ExcessWeight + c.Scoring.BedroomWeight
	if weightSum <= 0 {
		return fmt.Errorf("scoring weights must sum to a positive value, got %f", weightSum)
	}
	for name, v := range map[string]float64{
		"scoring.fit_weight":              c.Scoring.FitWeight,
		"scoring.use_extra_weight":        c.Scoring.UseExtraWeight,
		"scoring.excess_weight":           c.Scoring.ExcessWeight,
		"scoring.bedroom_weight":          c.Scoring.BedroomWeight,
		"scoring.match_feature_weight":    c.Scoring.MatchFeatureWeight,
		"scoring.match_popularity_weight": c.Scoring.MatchPopularityWeight,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}

	if c.Scoring.AIBlendWeight < 0 || c.Scoring.AIBlendWeight > 1 {
		return fmt.Errorf("scoring.ai_blend_weight must be in [0, 1], got %f", c.Scoring.AIBlendWeight)
	}
	if c.Scoring.MatchedCapacityFloor < 0 || c.Scoring.MatchedCapacityFloor > 1 {
		return fmt.Errorf("scoring.matched_capacity_floor must be in [0, 1], got %f", c.Scoring.MatchedCapacityFloor)
	}
	if c.Scoring.PriceBandLow < 0 || c.Scoring.PriceBandHigh <= c.Scoring.PriceBandLow {
		return fmt.Errorf("invalid price band [%f, %f]", c.Scoring.PriceBandLow, c.Scoring.PriceBandHigh)
	}
	if c.Scoring.PriceBuffHigh < c.Scoring.PriceBandLow || c.Scoring.PriceBuffHigh > c.Scoring.PriceBandHigh {
		return fmt.Errorf("scoring.price_buff_high must sit inside the price band, got %f", c.Scoring.PriceBuffHigh)
	}

	if c.Flows.OptionCount < 1 {
		return fmt.Errorf("flows.option_count must be positive, got %d", c.Flows.OptionCount)
	}
	if c.Flows.PopularCapacityWeight < 0 || c.Flows.PopularCapacityWeight > 1 {
		return fmt.Errorf("flows.popular_capacity_weight must be in [0, 1], got %f", c.Flows.PopularCapacityWeight)
	}
	if c.Flows.DirectCapacityWeight < 0 || c.Flows.DirectCapacityWeight > 1 {
		return fmt.Errorf("flows.direct_capacity_weight must be in [0, 1], got %f", c.Flows.DirectCapacityWeight)
	}

	if c.Partition.MaxRanked < 1 {
		return fmt.Errorf("partition.max_ranked must be positive, got %d", c.Partition.MaxRanked)
	}
	if c.Partition.PerClusterSize < 1 {
		return fmt.Errorf("partition.per_cluster_size must be positive, got %d", c.Partition.PerClusterSize)
	}
	if c.Partition.MaxSlots < 1 {
		return fmt.Errorf("partition.max_slots must be positive, got %d", c.Partition.MaxSlots)
	}

	if c.Optimizer.TopK < 1 {
		return fmt.Errorf("optimizer.top_k must be positive, got %d", c.Optimizer.TopK)
	}

	if c.Collaborator.Enabled && c.Collaborator.Timeout <= 0 {
		return fmt.Errorf("collaborator.timeout must be positive when enabled, got %v", c.Collaborator.Timeout)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	cp := *c
	return &cp
}

// Weights returns the preference weights for the given flow. Flows
// without a preference component get zero weights.
func (c *Config) Weights(flow Flow) PreferenceWeights {
	switch flow {
	case FlowMostPopular:
		return c.Preference.MostPopular
	case FlowTip:
		return c.Preference.Tip
	default:
		return PreferenceWeights{}
	}
}
