package stats

import "strconv"

var knownScaleLabels = map[int][]string{
	3: {"Disagree", "Partly", "Agree"},
	4: {"Disagree", "Somewhat disagree", "Somewhat agree", "Agree"},
	5: {"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree"},
}

// Chart axes have no room for the long forms.
var shortScaleLabels = map[int][]string{
	5: {"Str. disagree", "Disagree", "Neutral", "Agree", "Str. agree"},
}

// ScaleLabels returns the answer labels of an n point scale, from lowest to
// highest. Scales without a curated label set are labelled by number.
func ScaleLabels(n int) []string {
	return labelsFrom(knownScaleLabels, n)
}

// ShortScaleLabels is ScaleLabels with the abbreviations used on charts.
func ShortScaleLabels(n int) []string {
	if _, ok := shortScaleLabels[n]; ok {
		return labelsFrom(shortScaleLabels, n)
	}
	return ScaleLabels(n)
}

func labelsFrom(known map[int][]string, n int) []string {
	if labels, ok := known[n]; ok {
		out := make([]string, len(labels))
		copy(out, labels)
		return out
	}
	if n < 1 {
		return []string{}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}
