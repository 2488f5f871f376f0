package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrOrderDelivered = errors.New("cannot cancel a delivered order")
	ErrOrderCancelled = errors.New("order is already cancelled")
)

// OrderItem is a snapshot taken at checkout. Later product edits or
// deletion do not touch it.
type OrderItem struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	Name    string             `bson:"name" json:"name"`
	Qty     int                `bson:"qty" json:"qty"`
	Price   float64            `bson:"price" json:"price"`
	Image   string             `bson:"image" json:"image"`
}

type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsShipped       bool               `bson:"isShipped" json:"isShipped"`
	ShippedAt       *time.Time         `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	IsCancelled     bool               `bson:"isCancelled" json:"isCancelled"`
	CancelledAt     *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Each flag goes false→true at most once and is never reset. MarkPaid and
// MarkDelivered carry no preconditions: an admin may settle them in any
// order, so delivered-while-unpaid is representable.

func (o *Order) MarkPaid(now time.Time) {
	if o.IsPaid {
		return
	}
	o.IsPaid = true
	o.PaidAt = &now
}

func (o *Order) MarkShipped(now time.Time) {
	if o.IsShipped {
		return
	}
	o.IsShipped = true
	o.ShippedAt = &now
}

func (o *Order) MarkDelivered(now time.Time) {
	if o.IsDelivered {
		return
	}
	o.IsDelivered = true
	o.DeliveredAt = &now
}

func (o *Order) Cancel(now time.Time) error {
	if o.IsDelivered {
		return ErrOrderDelivered
	}
	if o.IsCancelled {
		return ErrOrderCancelled
	}
	o.IsCancelled = true
	o.CancelledAt = &now
	return nil
}

// Status derives the display status: cancelled wins over delivered, which
// wins over shipped.
func (o Order) Status() string {
	switch {
	case o.IsCancelled:
		return "cancelled"
	case o.IsDelivered:
		return "delivered"
	case o.IsShipped:
		return "shipped"
	default:
		return "pending"
	}
}

func (o Order) ContainsSellerItem(sellerProducts map[primitive.ObjectID]bool) bool {
	for _, item := range o.OrderItems {
		if sellerProducts[item.Product] {
			return true
		}
	}
	return false
}

// ItemsForSeller strips the order down to the given seller's own line items
// so one seller never sees another's items inside a shared order.
func (o Order) ItemsForSeller(sellerProducts map[primitive.ObjectID]bool) []OrderItem {
	items := []OrderItem{}
	for _, item := range o.OrderItems {
		if sellerProducts[item.Product] {
			items = append(items, item)
		}
	}
	return items
}
