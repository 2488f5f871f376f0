package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCancel(t *testing.T) {
	var order Order
	now := time.Now()

	if err := order.Cancel(now); err != nil {
		t.Fatalf("expected cancel to succeed, got %v", err)
	}
	if !order.IsCancelled {
		t.Error("expected isCancelled true")
	}
	if order.CancelledAt == nil || !order.CancelledAt.Equal(now) {
		t.Error("expected cancelledAt set")
	}

	if err := order.Cancel(now); err != ErrOrderCancelled {
		t.Errorf("expected ErrOrderCancelled on second cancel, got %v", err)
	}
	if !order.IsCancelled {
		t.Error("cancelled flag must never reset")
	}
}

func TestCancelDelivered(t *testing.T) {
	var order Order
	order.MarkDelivered(time.Now())

	if err := order.Cancel(time.Now()); err != ErrOrderDelivered {
		t.Errorf("expected ErrOrderDelivered, got %v", err)
	}
	if order.IsCancelled {
		t.Error("delivered order must not become cancelled")
	}
}

func TestMarksAreMonotonic(t *testing.T) {
	var order Order
	first := time.Now()
	later := first.Add(time.Hour)

	order.MarkPaid(first)
	order.MarkPaid(later)
	if !order.PaidAt.Equal(first) {
		t.Error("paidAt must keep the first timestamp")
	}

	order.MarkShipped(first)
	order.MarkShipped(later)
	if !order.ShippedAt.Equal(first) {
		t.Error("shippedAt must keep the first timestamp")
	}

	order.MarkDelivered(first)
	order.MarkDelivered(later)
	if !order.DeliveredAt.Equal(first) {
		t.Error("deliveredAt must keep the first timestamp")
	}
}

func TestDeliveredWhileUnpaidIsRepresentable(t *testing.T) {
	var order Order
	order.MarkDelivered(time.Now())

	if order.IsPaid {
		t.Error("delivering must not touch the paid flag")
	}
	if !order.IsDelivered {
		t.Error("expected isDelivered true")
	}
}

func TestStatusPriority(t *testing.T) {
	now := time.Now()

	var order Order
	if order.Status() != "pending" {
		t.Errorf("expected pending, got %s", order.Status())
	}

	order.MarkShipped(now)
	if order.Status() != "shipped" {
		t.Errorf("expected shipped, got %s", order.Status())
	}

	order.MarkDelivered(now)
	if order.Status() != "delivered" {
		t.Errorf("expected delivered, got %s", order.Status())
	}

	// Cancelled outranks everything else.
	order.IsCancelled = true
	if order.Status() != "cancelled" {
		t.Errorf("expected cancelled, got %s", order.Status())
	}
}

func TestItemsForSeller(t *testing.T) {
	mine := primitive.NewObjectID()
	theirs := primitive.NewObjectID()
	order := Order{OrderItems: []OrderItem{
		{Product: mine, Name: "mine", Qty: 1, Price: 10},
		{Product: theirs, Name: "theirs", Qty: 2, Price: 99},
	}}
	owned := map[primitive.ObjectID]bool{mine: true}

	items := order.ItemsForSeller(owned)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Product != mine {
		t.Error("filtered items must belong to the seller")
	}

	if !order.ContainsSellerItem(owned) {
		t.Error("expected order to contain seller item")
	}
	if order.ContainsSellerItem(map[primitive.ObjectID]bool{}) {
		t.Error("empty ownership must not match")
	}
}

func TestItemsForSellerNoLeakOnMiss(t *testing.T) {
	order := Order{OrderItems: []OrderItem{
		{Product: primitive.NewObjectID(), Qty: 1, Price: 5},
	}}
	items := order.ItemsForSeller(map[primitive.ObjectID]bool{primitive.NewObjectID(): true})
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}
