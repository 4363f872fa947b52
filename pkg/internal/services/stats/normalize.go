package stats

import "math"

// NormalizeAvg maps an average on a 1..scaleMax scale onto [0,1].
// A scale of one point or less has no range and always yields 0.
func NormalizeAvg(avg float64, scaleMax int) float64 {
	if scaleMax <= 1 {
		return 0
	}
	return clamp01((avg - 1) / float64(scaleMax-1))
}

// NormalizeSpread divides a standard deviation by the largest one reachable
// on a 1..scaleMax scale, which is half of the answers on each extreme.
func NormalizeSpread(spread float64, scaleMax int) float64 {
	if scaleMax <= 1 {
		return 0
	}
	return clamp01(spread / MaxSpread(scaleMax))
}

func MaxSpread(scaleMax int) float64 {
	if scaleMax <= 1 {
		return 0
	}
	return float64(scaleMax-1) / 2
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
