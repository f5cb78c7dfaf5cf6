package matching

// Similarity scores how well a service description covers a requirement.
//
// The score is the dot product of the two term-frequency vectors. It is not
// normalized, so long repetitive descriptions score higher; there is no IDF
// weighting either.
func Similarity(requirement, description string) int {
	reqFreq := termFrequencies(tokenize(requirement))
	descFreq := termFrequencies(tokenize(description))

	score := 0
	for term, n := range reqFreq {
		if m, ok := descFreq[term]; ok {
			score += n * m
		}
	}
	return score
}
