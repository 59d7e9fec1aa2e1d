package confidence_test

import (
	"testing"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/confidence"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestScoreT6AlwaysZero(t *testing.T) {
	now := time.Now()
	s := confidence.Score(model.T6, &now, now, 3, "test")
	assert.Equal(t, 0.0, s.Final)
}

func TestScoreClampedToUnitInterval(t *testing.T) {
	now := time.Now()
	s := confidence.Score(model.T1, &now, now, 3, "test")
	assert.LessOrEqual(t, s.Final, 1.0)
	assert.GreaterOrEqual(t, s.Final, 0.0)
}

func TestFreshnessMissingTimestampIsZero(t *testing.T) {
	assert.Equal(t, 0.0, confidence.Freshness(nil, time.Now()))
}

func TestCrossRefBonusTiers(t *testing.T) {
	assert.Equal(t, 1.0, confidence.CrossRefBonus(1))
	assert.Equal(t, 1.05, confidence.CrossRefBonus(2))
	assert.Equal(t, 1.10, confidence.CrossRefBonus(3))
	assert.Equal(t, 1.10, confidence.CrossRefBonus(10))
}

func TestMinPicksLowest(t *testing.T) {
	high := model.ConfidenceScore{Final: 0.9}
	low := model.ConfidenceScore{Final: 0.2}
	assert.Equal(t, low, confidence.Min(high, low))
}
