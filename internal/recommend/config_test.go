// Roomrec - Hotel Room Product Recommendation Engine
// Copyright 2026 Javi Nobile (javinobile)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/javinobile/Gauvendi-sub009

package recommend

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	sum := cfg.Scoring.FitWeight + cfg.Scoring.UseExtraWeight +
		cfg.Scoring.ExcessWeight + cfg.Scoring.BedroomWeight
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("capacity weights sum = %v, want 1.0", sum)
	}

	if cfg.Flows.OptionCount != 3 {
		t.Errorf("OptionCount = %d, want 3", cfg.Flows.OptionCount)
	}
	if cfg.Optimizer.TopK != 100 {
		t.Errorf("TopK = %d, want 100", cfg.Optimizer.TopK)
	}
	if cfg.Collaborator.Enabled {
		t.Error("collaborator should default to disabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{
			name:    "zero scoring weights",
			mutate:  func(c *Config) { c.Scoring = ScoringConfig{PriceBandHigh: 0.5} },
			wantErr: true,
		},
		{
			name:    "negative fit weight",
			mutate:  func(c *Config) { c.Scoring.FitWeight = -0.1 },
			wantErr: true,
		},
		{
			name:    "ai blend weight above one",
			mutate:  func(c *Config) { c.Scoring.AIBlendWeight = 1.5 },
			wantErr: true,
		},
		{
			name:    "inverted price band",
			mutate:  func(c *Config) { c.Scoring.PriceBandHigh = 0.05 },
			wantErr: true,
		},
		{
			name:    "buff band outside price band",
			mutate:  func(c *Config) { c.Scoring.PriceBuffHigh = 0.9 },
			wantErr: true,
		},
		{
			name:    "zero option count",
			mutate:  func(c *Config) { c.Flows.OptionCount = 0 },
			wantErr: true,
		},
		{
			name:    "capacity weight above one",
			mutate:  func(c *Config) { c.Flows.DirectCapacityWeight = 1.2 },
			wantErr: true,
		},
		{
			name:    "zero max ranked partitions",
			mutate:  func(c *Config) { c.Partition.MaxRanked = 0 },
			wantErr: true,
		},
		{
			name:    "zero top-k",
			mutate:  func(c *Config) { c.Optimizer.TopK = 0 },
			wantErr: true,
		},
		{
			name: "enabled collaborator without timeout",
			mutate: func(c *Config) {
				c.Collaborator.Enabled = true
				c.Collaborator.Timeout = 0
			},
			wantErr: true,
		},
		{
			name: "disabled collaborator without timeout",
			mutate: func(c *Config) {
				c.Collaborator.Enabled = false
				c.Collaborator.Timeout = 0
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Flows.OptionCount = 9
	clone.Scoring.FitWeight = 0.99

	if cfg.Flows.OptionCount == 9 || cfg.Scoring.FitWeight == 0.99 {
		t.Error("Clone() shares state with the original")
	}
}

func TestConfigWeights(t *testing.T) {
	cfg := DefaultConfig()

	mp := cfg.Weights(FlowMostPopular)
	if mp.History != 0.5 || mp.Feature != 0.3 || mp.Price != 0.2 {
		t.Errorf("mostPopular weights = %+v", mp)
	}

	tip := cfg.Weights(FlowTip)
	if tip.History != 0.3 || tip.Feature != 0.5 || tip.Price != 0.2 {
		t.Errorf("tip weights = %+v", tip)
	}

	if w := cfg.Weights(FlowDirect); w != (PreferenceWeights{}) {
		t.Errorf("direct weights = %+v, want zero", w)
	}
}

func TestFlowString(t *testing.T) {
	tests := []struct {
		flow Flow
		want string
	}{
		{FlowMostPopular, "mostPopular"},
		{FlowTip, "tip"},
		{FlowDirect, "direct"},
		{FlowMatch, "match"},
		{Flow(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.flow.String(); got != tt.want {
			t.Errorf("Flow(%d).String() = %q, want %q", tt.flow, got, tt.want)
		}
	}
}
