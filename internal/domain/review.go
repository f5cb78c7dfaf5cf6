package domain

import (
	"strings"
	"time"

	apperrors "github.com/KiranKumarPM/servon-1/pkg/errors"
)

// Rating bounds for a service review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating and comment for a catalog service.
// At most one review exists per (ServiceID, UserID) pair.
type Review struct {
	ID        string    `json:"id"`
	ServiceID int64     `json:"serviceId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Helpful   int       `json:"helpful"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidateRating reports an invalid-input error when rating is outside [MinRating, MaxRating].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}
	return nil
}

// Revise applies a partial update. A nil field is left untouched; the rating
// bounds are checked again so an update can never store an out-of-range value.
func (r *Review) Revise(rating *int, comment *string, now time.Time) error {
	if rating != nil {
		if err := ValidateRating(*rating); err != nil {
			return err
		}
	}
	if comment != nil && strings.TrimSpace(*comment) == "" {
		return apperrors.InvalidInput("comment must not be empty")
	}

	if rating != nil {
		r.Rating = *rating
	}
	if comment != nil {
		r.Comment = *comment
	}
	r.UpdatedAt = now
	return nil
}

// IsOwnedBy reports whether the review was written by userID.
func (r *Review) IsOwnedBy(userID string) bool {
	return r.UserID == userID
}

// ReviewStats is the aggregate view of all reviews for one service.
type ReviewStats struct {
	AverageRating float64     `json:"averageRating"`
	ReviewCount   int         `json:"reviewCount"`
	Distribution  map[int]int `json:"distribution"`
}

// EmptyDistribution returns a zero-filled histogram keyed by star value.
func EmptyDistribution() map[int]int {
	d := make(map[int]int, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		d[star] = 0
	}
	return d
}

// NewReviewStats builds statistics from a rating -> count histogram.
//
// The average is rounded half-up to one decimal place using integer
// arithmetic, so 4.25 always becomes 4.3 regardless of float representation.
// Ratings outside the star range still count toward the average and total
// but get no histogram bucket.
func NewReviewStats(histogram map[int]int) *ReviewStats {
	stats := &ReviewStats{Distribution: EmptyDistribution()}

	var sum int64
	for rating, count := range histogram {
		if count <= 0 {
			continue
		}
		stats.ReviewCount += count
		sum += int64(rating) * int64(count)
		if _, ok := stats.Distribution[rating]; ok {
			stats.Distribution[rating] += count
		}
	}

	if stats.ReviewCount == 0 {
		return stats
	}

	n := int64(stats.ReviewCount)
	tenths := (20*sum + n) / (2 * n)
	stats.AverageRating = float64(tenths) / 10
	return stats
}

// ReviewStatsFromRatings aggregates a flat list of ratings.
func ReviewStatsFromRatings(ratings []int) *ReviewStats {
	hist := make(map[int]int, MaxRating)
	for _, r := range ratings {
		hist[r]++
	}
	return NewReviewStats(hist)
}
