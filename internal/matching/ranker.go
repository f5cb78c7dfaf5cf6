package matching

import (
	"sort"
	"strings"

	"github.com/KiranKumarPM/servon-1/internal/domain"
)

// DefaultRecommendationLimit is used when the caller passes a non-positive limit.
const DefaultRecommendationLimit = 5

// Recommend scores every candidate against the requirement and returns the
// top limit results, best first. Candidates with equal scores keep their
// input order.
func Recommend(requirement string, candidates []domain.ServiceCandidate, limit int) []domain.Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	out := make([]domain.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.Recommendation{
			ServiceCandidate: c,
			SimilarityScore:  Similarity(requirement, profileText(c)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SimilarityScore > out[j].SimilarityScore
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// profileText is the text a candidate is matched on.
func profileText(c domain.ServiceCandidate) string {
	return strings.Join([]string{c.Name, c.Description, c.Provider, c.BusinessType}, " ")
}
