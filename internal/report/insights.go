package report

import "strings"

// Insight is one "key insight" flag shown next to a report.
type Insight struct {
	Label   string `json:"label"`
	Present bool   `json:"present"`
}

// insightRules maps each label to the words that trigger it.
var insightRules = []struct {
	label string
	words []string
}{
	{"Research papers found and analyzed", []string{"keyword", "research"}},
	{"Comprehensive summary generated", []string{"summary"}},
	{"Project requirements validated", []string{"validation"}},
}

// Insights flags which analysis aspects the text mentions.
// Matching is a case-insensitive substring test.
func Insights(text string) []Insight {
	lower := strings.ToLower(text)
	out := make([]Insight, 0, len(insightRules))
	for _, rule := range insightRules {
		present := false
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				present = true
				break
			}
		}
		out = append(out, Insight{Label: rule.label, Present: present})
	}
	return out
}

// PresentInsights returns only the labels whose flag is set.
func PresentInsights(text string) []string {
	var labels []string
	for _, in := range Insights(text) {
		if in.Present {
			labels = append(labels, in.Label)
		}
	}
	return labels
}
