package research

// merge concatenates results in order, then deduplicates learnings and
// visited URLs by exact value, keeping each entry at its first-seen
// position. Follow-up questions and analyses are concatenated untouched.
// An empty result produced by a failed branch merges identically to a
// legitimately empty one, which is what keeps partial failure out of the
// callers' way.
func merge(results ...Result) Result {
	var merged Result
	for _, r := range results {
		merged.Learnings = append(merged.Learnings, r.Learnings...)
		merged.VisitedURLs = append(merged.VisitedURLs, r.VisitedURLs...)
		merged.FollowUpQuestions = append(merged.FollowUpQuestions, r.FollowUpQuestions...)
		merged.Analyses = append(merged.Analyses, r.Analyses...)
	}
	merged.Learnings = dedupe(merged.Learnings)
	merged.VisitedURLs = dedupe(merged.VisitedURLs)
	return merged
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique
}
