package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	c := Load()
	if c.MatchMinScore != 50 {
		t.Errorf("MatchMinScore = %v", c.MatchMinScore)
	}
	if c.MatchTopN != 10 {
		t.Errorf("MatchTopN = %d", c.MatchTopN)
	}
	if c.LateFeeDailyRate != 0.0005 {
		t.Errorf("LateFeeDailyRate = %v", c.LateFeeDailyRate)
	}
	if c.LateFeeCap != 200_000 {
		t.Errorf("LateFeeCap = %v", c.LateFeeCap)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	c := Load()
	c.Weights.Rate = 0.50 // now sums to 1.2
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "sum to 1.0") {
		t.Fatalf("want weight-sum error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MATCH_TOP_N", "3")
	t.Setenv("MATCH_WEIGHT_AMOUNT", "0.30")
	t.Setenv("MATCH_WEIGHT_RATE", "0.25")
	c := Load()
	if c.MatchTopN != 3 {
		t.Errorf("MatchTopN = %d", c.MatchTopN)
	}
	if c.Weights.Amount != 0.30 || c.Weights.Rate != 0.25 {
		t.Errorf("weights = %+v", c.Weights)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("overridden config invalid: %v", err)
	}
}
