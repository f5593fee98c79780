package video

import (
	"sort"
	"strings"
)

const (
	titleWeight       = 0.7
	descriptionWeight = 0.3
	// MinRelevance is the lowest score a candidate may have and still be attached.
	MinRelevance = 0.6
)

// Score is 0.7 x (query tokens found in the title) + 0.3 x (query tokens found
// in the description), each as a fraction of the query tokens.
func Score(query, title, description string) float64 {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return 0
	}
	title = strings.ToLower(title)
	description = strings.ToLower(description)
	var inTitle, inDesc int
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			inTitle++
		}
		if strings.Contains(description, tok) {
			inDesc++
		}
	}
	n := float64(len(tokens))
	return float64(inTitle)/n*titleWeight + float64(inDesc)/n*descriptionWeight
}

// Rank scores candidates against query, drops those under MinRelevance and
// returns at most maxResults in descending score order. Ties keep search order.
func Rank(query string, candidates []Candidate, maxResults int) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.RelevanceScore = Score(query, c.Title, c.Description)
		if c.RelevanceScore < MinRelevance {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RelevanceScore > out[j].RelevanceScore })
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}
