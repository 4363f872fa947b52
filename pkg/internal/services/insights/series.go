package insights

import (
	"math"
	"sort"
	"time"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/stats"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Point is one round of a question series with its statistics mapped onto
// the unit interval, so points answered on different scales compare.
type Point struct {
	RoundID        uint      `json:"round_id"`
	RoundCreatedAt time.Time `json:"round_created_at"`
	ScaleMax       int       `json:"scale_max"`
	Avg            float64   `json:"avg"`
	NormAvg        float64   `json:"norm_avg"`
	Spread         float64   `json:"spread"`
	NormSpread     float64   `json:"norm_spread"`
	Count          int       `json:"count"`
	Values         []int     `json:"values"`
}

type Series struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Points       []Point `json:"points"`
}

// Latest returns the most recent point of the series.
func (v Series) Latest() (Point, bool) {
	if len(v.Points) == 0 {
		return Point{}, false
	}
	return v.Points[len(v.Points)-1], true
}

type Delta struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Delta        float64 `json:"delta"`
	Direction    string  `json:"direction,omitempty"`
}

func NewPoint(agg models.QuestionAggregate) Point {
	return Point{
		RoundID:        agg.RoundID,
		RoundCreatedAt: agg.RoundCreatedAt,
		ScaleMax:       agg.ScaleMax,
		Avg:            agg.Avg,
		NormAvg:        stats.NormalizeAvg(agg.Avg, agg.ScaleMax),
		Spread:         agg.Spread,
		NormSpread:     stats.NormalizeSpread(agg.Spread, agg.ScaleMax),
		Count:          agg.Count,
		Values:         agg.Values,
	}
}

// BuildSeries groups aggregates by question. Questions keep the order in
// which they are first seen, points are sorted oldest first.
func BuildSeries(aggs []models.QuestionAggregate) []Series {
	index := make(map[uint]int)
	var out []Series
	for _, agg := range aggs {
		idx, ok := index[agg.QuestionID]
		if !ok {
			idx = len(out)
			index[agg.QuestionID] = idx
			out = append(out, Series{
				QuestionID:   agg.QuestionID,
				QuestionText: agg.QuestionText,
			})
		}
		out[idx].Points = append(out[idx].Points, NewPoint(agg))
	}

	for i := range out {
		points := out[i].Points
		sort.SliceStable(points, func(a, b int) bool {
			if points[a].RoundCreatedAt.Equal(points[b].RoundCreatedAt) {
				return points[a].RoundID < points[b].RoundID
			}
			return points[a].RoundCreatedAt.Before(points[b].RoundCreatedAt)
		})
	}

	return out
}

// NormDelta is the change of normalized average from prev to curr, rounded
// to two decimals.
func NormDelta(curr, prev Point) float64 {
	return stats.Round2(curr.NormAvg - prev.NormAvg)
}

// ConsecutiveDelta compares the last two points of the series. It reports
// false when the series holds fewer than two points.
func ConsecutiveDelta(series Series) (Delta, bool) {
	n := len(series.Points)
	if n < 2 {
		return Delta{}, false
	}
	delta := NormDelta(series.Points[n-1], series.Points[n-2])
	return Delta{
		QuestionID:   series.QuestionID,
		QuestionText: series.QuestionText,
		Delta:        delta,
		Direction:    DirectionOf(delta),
	}, true
}

func DirectionOf(delta float64) string {
	switch {
	case delta > 0:
		return DirectionUp
	case delta < 0:
		return DirectionDown
	default:
		return ""
	}
}

// TopMovers picks up to n largest increases and n largest decreases across
// every series, each ordered by magnitude. Unchanged questions are left out.
func TopMovers(series []Series, n int) (increases []Delta, decreases []Delta) {
	increases, decreases = []Delta{}, []Delta{}
	for _, item := range series {
		delta, ok := ConsecutiveDelta(item)
		if !ok {
			continue
		}
		switch delta.Direction {
		case DirectionUp:
			increases = append(increases, delta)
		case DirectionDown:
			decreases = append(decreases, delta)
		}
	}

	sort.SliceStable(increases, func(i, j int) bool {
		return increases[i].Delta > increases[j].Delta
	})
	sort.SliceStable(decreases, func(i, j int) bool {
		return decreases[i].Delta < decreases[j].Delta
	})

	return increases[:min(n, len(increases))], decreases[:min(n, len(decreases))]
}

// IsMixedSignal tells whether a normalized spread is wide enough to flag a
// question as answered very differently across the team.
func IsMixedSignal(normSpread float64) bool {
	return normSpread >= MixedSignalThreshold
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}
