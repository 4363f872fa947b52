package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
)

const (
	CelebrationThreshold = 0.05
	HighScoreThreshold   = 0.83
	DropThreshold        = -0.05
	HighSpreadThreshold  = 0.3
	MixedSignalThreshold = 0.35
)

const (
	highSpreadLimit  = 3
	lowestAvgSignals = 2
	spreadSignals    = 1
)

// Pick is one question surfaced by the trend, with the normalized value it
// was picked for and a sentence explaining it.
type Pick struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Value        float64 `json:"value"`
	Reason       string  `json:"reason,omitempty"`
}

type Trend struct {
	RoundID         uint    `json:"round_id"`
	PreviousRoundID *uint   `json:"previous_round_id"`
	Deltas          []Delta `json:"deltas"`
	Celebration     *Pick   `json:"celebration"`
	Drops           []Pick  `json:"drops"`
	HighSpread      []Pick  `json:"high_spread"`
	Signals         []Pick  `json:"signals"`
	ScaleChanged    bool    `json:"scale_changed"`
}

type roundSlice struct {
	id        uint
	createdAt time.Time
	aggs      []models.QuestionAggregate
}

// splitRounds groups a chronological aggregate list by round, oldest first.
func splitRounds(aggs []models.QuestionAggregate) []roundSlice {
	index := make(map[uint]int)
	var rounds []roundSlice
	for _, agg := range aggs {
		idx, ok := index[agg.RoundID]
		if !ok {
			idx = len(rounds)
			index[agg.RoundID] = idx
			rounds = append(rounds, roundSlice{id: agg.RoundID, createdAt: agg.RoundCreatedAt})
		}
		rounds[idx].aggs = append(rounds[idx].aggs, agg)
	}
	sort.SliceStable(rounds, func(i, j int) bool {
		if rounds[i].createdAt.Equal(rounds[j].createdAt) {
			return rounds[i].id < rounds[j].id
		}
		return rounds[i].createdAt.Before(rounds[j].createdAt)
	})
	return rounds
}

// DeriveTrend compares the latest round of a chronologically ordered list
// of aggregates against the round right before it. Without a previous
// round there are no deltas or drops and a celebration can only come from
// a high score.
func DeriveTrend(aggs []models.QuestionAggregate) Trend {
	trend := Trend{
		Deltas:     []Delta{},
		Drops:      []Pick{},
		HighSpread: []Pick{},
		Signals:    []Pick{},
	}

	rounds := splitRounds(aggs)
	if len(rounds) == 0 {
		return trend
	}

	current := lo.Map(rounds[len(rounds)-1].aggs, func(item models.QuestionAggregate, _ int) Point {
		return NewPoint(item)
	})
	currentAggs := rounds[len(rounds)-1].aggs
	trend.RoundID = rounds[len(rounds)-1].id

	previous := make(map[uint]Point)
	if len(rounds) > 1 {
		prev := rounds[len(rounds)-2]
		trend.PreviousRoundID = &prev.id
		for _, agg := range prev.aggs {
			previous[agg.QuestionID] = NewPoint(agg)
		}
		if len(prev.aggs) > 0 && len(currentAggs) > 0 {
			trend.ScaleChanged = prev.aggs[0].ScaleMax != currentAggs[0].ScaleMax
		}
	}

	var improvements []Pick
	for idx, point := range current {
		agg := currentAggs[idx]
		prev, ok := previous[agg.QuestionID]
		if !ok {
			continue
		}

		raw := point.NormAvg - prev.NormAvg
		delta := NormDelta(point, prev)
		trend.Deltas = append(trend.Deltas, Delta{
			QuestionID:   agg.QuestionID,
			QuestionText: agg.QuestionText,
			Delta:        delta,
			Direction:    DirectionOf(delta),
		})

		if raw > CelebrationThreshold {
			improvements = append(improvements, Pick{
				QuestionID:   agg.QuestionID,
				QuestionText: agg.QuestionText,
				Value:        raw,
				Reason:       fmt.Sprintf("Moved up +%d%% since last round", percent(raw)),
			})
		}
		if raw < DropThreshold {
			trend.Drops = append(trend.Drops, Pick{
				QuestionID:   agg.QuestionID,
				QuestionText: agg.QuestionText,
				Value:        raw,
				Reason:       fmt.Sprintf("Moved down %d%% since last round", -percent(raw)),
			})
		}
	}

	sort.SliceStable(improvements, func(i, j int) bool {
		return improvements[i].Value > improvements[j].Value
	})
	sort.SliceStable(trend.Drops, func(i, j int) bool {
		return trend.Drops[i].Value < trend.Drops[j].Value
	})

	order := lo.Range(len(current))
	byAvgAsc := append([]int(nil), order...)
	sort.SliceStable(byAvgAsc, func(i, j int) bool {
		return current[byAvgAsc[i]].NormAvg < current[byAvgAsc[j]].NormAvg
	})
	byAvgDesc := append([]int(nil), order...)
	sort.SliceStable(byAvgDesc, func(i, j int) bool {
		return current[byAvgDesc[i]].NormAvg > current[byAvgDesc[j]].NormAvg
	})
	bySpreadDesc := append([]int(nil), order...)
	sort.SliceStable(bySpreadDesc, func(i, j int) bool {
		return current[bySpreadDesc[i]].NormSpread > current[bySpreadDesc[j]].NormSpread
	})

	if len(improvements) > 0 {
		trend.Celebration = &improvements[0]
	} else if len(byAvgDesc) > 0 && current[byAvgDesc[0]].NormAvg >= HighScoreThreshold {
		agg := currentAggs[byAvgDesc[0]]
		trend.Celebration = &Pick{
			QuestionID:   agg.QuestionID,
			QuestionText: agg.QuestionText,
			Value:        current[byAvgDesc[0]].NormAvg,
			Reason:       fmt.Sprintf("Scored %.1f/%d, that's strong", agg.Avg, agg.ScaleMax),
		}
	}

	lowest := byAvgAsc[:min(lowestAvgSignals, len(byAvgAsc))]
	for _, idx := range lowest {
		agg := currentAggs[idx]
		trend.Signals = append(trend.Signals, Pick{
			QuestionID:   agg.QuestionID,
			QuestionText: agg.QuestionText,
			Value:        current[idx].NormAvg,
			Reason:       fmt.Sprintf("Avg %.1f/%d, seems like this could use attention", agg.Avg, agg.ScaleMax),
		})
	}

	rest := lo.Filter(bySpreadDesc, func(idx int, _ int) bool {
		return !lo.Contains(lowest, idx)
	})
	for _, idx := range rest[:min(spreadSignals, len(rest))] {
		agg := currentAggs[idx]
		trend.Signals = append(trend.Signals, Pick{
			QuestionID:   agg.QuestionID,
			QuestionText: agg.QuestionText,
			Value:        current[idx].NormSpread,
			Reason:       "High spread, people seem to experience this differently",
		})
	}

	for _, idx := range rest {
		if len(trend.HighSpread) >= highSpreadLimit {
			break
		}
		if current[idx].NormSpread <= HighSpreadThreshold {
			continue
		}
		agg := currentAggs[idx]
		trend.HighSpread = append(trend.HighSpread, Pick{
			QuestionID:   agg.QuestionID,
			QuestionText: agg.QuestionText,
			Value:        current[idx].NormSpread,
			Reason:       fmt.Sprintf("Spread %d%%", percent(current[idx].NormSpread)),
		})
	}

	return trend
}
