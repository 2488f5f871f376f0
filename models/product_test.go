package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newReview(user primitive.ObjectID, rating int) Review {
	return Review{ID: primitive.NewObjectID(), User: user, Name: "buyer", Rating: rating, Comment: "ok"}
}

func TestAddReviewRecomputesAggregates(t *testing.T) {
	product := Product{Seller: primitive.NewObjectID()}

	if err := product.AddReview(newReview(primitive.NewObjectID(), 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.NumReviews != 1 || product.Rating != 4.0 {
		t.Errorf("expected 1 review, rating 4.0; got %d, %v", product.NumReviews, product.Rating)
	}

	if err := product.AddReview(newReview(primitive.NewObjectID(), 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.NumReviews != 2 || product.Rating != 3.0 {
		t.Errorf("expected 2 reviews, rating 3.0; got %d, %v", product.NumReviews, product.Rating)
	}

	if err := product.AddReview(newReview(primitive.NewObjectID(), 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (4.0 + 2.0 + 5.0) / 3.0
	if product.Rating != want {
		t.Errorf("expected rating %v, got %v", want, product.Rating)
	}
	if product.NumReviews != len(product.Reviews) {
		t.Error("numReviews must equal len(reviews)")
	}
}

func TestAddReviewDuplicate(t *testing.T) {
	product := Product{Seller: primitive.NewObjectID()}
	buyer := primitive.NewObjectID()

	if err := product.AddReview(newReview(buyer, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := product.AddReview(newReview(buyer, 1)); err != ErrAlreadyReviewed {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
	if product.NumReviews != 1 || product.Rating != 5.0 {
		t.Error("rejected review must not change aggregates")
	}
}

func TestAddReviewOwnProduct(t *testing.T) {
	seller := primitive.NewObjectID()
	product := Product{Seller: seller}

	if err := product.AddReview(newReview(seller, 5)); err != ErrOwnProductReview {
		t.Errorf("expected ErrOwnProductReview, got %v", err)
	}
}

func TestAddReviewRatingBounds(t *testing.T) {
	product := Product{Seller: primitive.NewObjectID()}

	for _, rating := range []int{0, -1, 6} {
		if err := product.AddReview(newReview(primitive.NewObjectID(), rating)); err != ErrRatingOutOfRange {
			t.Errorf("rating %d: expected ErrRatingOutOfRange, got %v", rating, err)
		}
	}
	for _, rating := range []int{1, 5} {
		if err := product.AddReview(newReview(primitive.NewObjectID(), rating)); err != nil {
			t.Errorf("rating %d: unexpected error: %v", rating, err)
		}
	}
}

func TestReviewedBy(t *testing.T) {
	buyer := primitive.NewObjectID()
	product := Product{Reviews: []Review{newReview(buyer, 3)}}

	if !product.ReviewedBy(buyer) {
		t.Error("expected ReviewedBy true for existing reviewer")
	}
	if product.ReviewedBy(primitive.NewObjectID()) {
		t.Error("expected ReviewedBy false for stranger")
	}
}
