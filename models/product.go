package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrOwnProductReview = errors.New("cannot review your own product")
	ErrAlreadyReviewed  = errors.New("already reviewed this product")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Stock       int                `bson:"stock" json:"stock"`
	Seller      primitive.ObjectID `bson:"seller" json:"seller"`
	Reviews     []Review           `bson:"reviews" json:"reviews"`
	Rating      float64            `bson:"rating" json:"rating"`
	NumReviews  int                `bson:"numReviews" json:"numReviews"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p Product) ReviewedBy(userID primitive.ObjectID) bool {
	for _, r := range p.Reviews {
		if r.User == userID {
			return true
		}
	}
	return false
}

// AddReview appends a review and recomputes the aggregates. The delivered
// purchase check needs the order collection and stays with the handler.
func (p *Product) AddReview(review Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrRatingOutOfRange
	}
	if review.User == p.Seller {
		return ErrOwnProductReview
	}
	if p.ReviewedBy(review.User) {
		return ErrAlreadyReviewed
	}

	p.Reviews = append(p.Reviews, review)
	p.NumReviews = len(p.Reviews)

	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(len(p.Reviews))
	return nil
}
