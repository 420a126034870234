package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
)

// MinRating and MaxRating bound a review score
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a product
type Review struct {
	shared.BaseEntity
	ProductID uuid.UUID
	UserID    uuid.UUID
	Name      string
	Rating    int
	Title     string
	Comment   string
	Images    []string
	Verified  bool
}

// ReviewInput carries the user-supplied fields of a review
type ReviewInput struct {
	Rating  int
	Comment string
	Title   string
	Images  []string
}

// NewReview creates a validated review
func NewReview(productID, userID uuid.UUID, reviewerName string, in ReviewInput) (*Review, error) {
	if err := ValidateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := validateComment(in.Comment); err != nil {
		return nil, err
	}
	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		UserID:     userID,
		Name:       reviewerName,
		Rating:     in.Rating,
		Title:      strings.TrimSpace(in.Title),
		Comment:    strings.TrimSpace(in.Comment),
		Images:     in.Images,
	}, nil
}

// Edit replaces the editable fields of the review
func (r *Review) Edit(in ReviewInput) error {
	if err := ValidateRating(in.Rating); err != nil {
		return err
	}
	if in.Comment != "" {
		if err := validateComment(in.Comment); err != nil {
			return err
		}
		r.Comment = strings.TrimSpace(in.Comment)
	}
	r.Rating = in.Rating
	if in.Title != "" {
		r.Title = strings.TrimSpace(in.Title)
	}
	if in.Images != nil {
		r.Images = in.Images
	}
	r.Touch()
	return nil
}

// IsOwnedBy reports whether userID wrote the review
func (r *Review) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// ValidateRating rejects scores outside [MinRating, MaxRating]
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

func validateComment(comment string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(comment))
	if n < 5 || n > 500 {
		return shared.NewDomainError("VALIDATION_ERROR", "Comment must be between 5 and 500 characters")
	}
	return nil
}

// RatingDistribution counts reviews per star value
func RatingDistribution(reviews []Review) map[int]int {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range reviews {
		if r.Rating >= MinRating && r.Rating <= MaxRating {
			dist[r.Rating]++
		}
	}
	return dist
}

// Ratings extracts the scores of reviews
func Ratings(reviews []Review) []int {
	out := make([]int, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.Rating)
	}
	return out
}
