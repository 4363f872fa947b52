package stats

import "math"

type Summary struct {
	Avg    float64 `json:"avg"`
	Spread float64 `json:"spread"`
	Count  int     `json:"count"`
}

// Summarize computes the mean and the population standard deviation of the
// values, both rounded to two decimals. It reports false for no values so
// callers can skip the pair instead of showing a 0/0 statistic.
func Summarize(values []int) (Summary, bool) {
	n := len(values)
	if n == 0 {
		return Summary{}, false
	}

	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var squares float64
	for _, v := range values {
		d := float64(v) - mean
		squares += d * d
	}
	variance := squares / float64(n)

	return Summary{
		Avg:    Round2(mean),
		Spread: Round2(math.Sqrt(variance)),
		Count:  n,
	}, true
}

// Distribution counts how many values hit each point 1..scaleMax.
// Values outside the scale are ignored.
func Distribution(values []int, scaleMax int) []int {
	if scaleMax < 1 {
		return []int{}
	}
	out := make([]int, scaleMax)
	for _, v := range values {
		if v >= 1 && v <= scaleMax {
			out[v-1]++
		}
	}
	return out
}
