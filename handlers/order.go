package handlers

import (
	"log"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-backend/middleware"
	"marketplace-backend/models"
)

type createOrderRequest struct {
	OrderItems      []models.OrderItem     `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

const priceTolerance = 0.01

// priceTotalsConsistent rejects payloads whose declared totals disagree
// with their own line items. The snapshots themselves are still
// client-supplied.
func priceTotalsConsistent(items []models.OrderItem, itemsPrice, shippingPrice, totalPrice float64) bool {
	sum := 0.0
	for _, item := range items {
		sum += item.Price * float64(item.Qty)
	}
	if math.Abs(sum-itemsPrice) > priceTolerance {
		return false
	}
	return math.Abs(itemsPrice+shippingPrice-totalPrice) <= priceTolerance
}

func CreateOrderHandler(c *gin.Context, db *mongo.Database) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if len(req.OrderItems) == 0 {
		c.JSON(400, gin.H{"error": "no items in order"})
		return
	}
	for _, item := range req.OrderItems {
		if item.Qty <= 0 || item.Price < 0 {
			c.JSON(400, gin.H{"error": "invalid order item"})
			return
		}
	}
	if !priceTotalsConsistent(req.OrderItems, req.ItemsPrice, req.ShippingPrice, req.TotalPrice) {
		c.JSON(400, gin.H{"error": "order prices do not add up"})
		return
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = "Cash on Delivery"
	}

	user, _ := middleware.CurrentUser(c)
	now := time.Now()
	order := models.Order{
		User:            user.ID,
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := db.Collection("orders").InsertOne(c.Request.Context(), order)
	if err != nil {
		log.Println("create order:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	adjustStock(c, db, order.OrderItems, -1)

	c.JSON(201, order)
}

// adjustStock applies sign×qty to every line item's product, one at a
// time, best-effort. Checkout calls it with -1, cancellation with +1, so
// a create/cancel round trip moves each stock count by the same amount
// in both directions. Products that no longer exist are skipped.
func adjustStock(c *gin.Context, db *mongo.Database, items []models.OrderItem, sign int) {
	for _, item := range items {
		_, err := db.Collection("products").UpdateOne(
			c.Request.Context(),
			bson.M{"_id": item.Product},
			bson.M{"$inc": bson.M{"stock": sign * item.Qty}},
		)
		if err != nil {
			log.Println("stock adjust:", err)
		}
	}
}

func MyOrdersHandler(c *gin.Context, db *mongo.Database) {
	user, _ := middleware.CurrentUser(c)
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := db.Collection("orders").Find(c.Request.Context(), bson.M{"user": user.ID}, opts)
	if err != nil {
		log.Println("my orders:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	orders := []models.Order{}
	if err := cur.All(c.Request.Context(), &orders); err != nil {
		log.Println("my orders:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, orders)
}

type orderResponse struct {
	models.Order
	Status    string       `json:"status"`
	BuyerInfo *userSummary `json:"buyerInfo,omitempty"`
}

func GetOrderHandler(c *gin.Context, db *mongo.Database) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}
	var order models.Order
	err = db.Collection("orders").FindOne(c.Request.Context(), bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if order.User != user.ID && !user.IsAdmin() {
		c.JSON(401, gin.H{"error": "access denied"})
		return
	}

	resp := orderResponse{Order: order, Status: order.Status()}
	var buyer models.User
	if db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": order.User}).Decode(&buyer) == nil {
		resp.BuyerInfo = &userSummary{ID: buyer.ID, Username: buyer.Username, Email: buyer.Email}
	}
	c.JSON(200, resp)
}

func CancelOrderHandler(c *gin.Context, db *mongo.Database) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}
	var order models.Order
	err = db.Collection("orders").FindOne(c.Request.Context(), bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if order.User != user.ID {
		c.JSON(401, gin.H{"error": "not authorized"})
		return
	}

	if err := order.Cancel(time.Now()); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	_, err = db.Collection("orders").UpdateOne(c.Request.Context(), bson.M{"_id": orderID}, bson.M{"$set": bson.M{
		"isCancelled": order.IsCancelled,
		"cancelledAt": order.CancelledAt,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		log.Println("cancel order:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	// Give the stock back, mirroring the decrement at checkout.
	adjustStock(c, db, order.OrderItems, 1)

	c.JSON(200, gin.H{"message": "order has been cancelled", "order": order})
}

// sellerProductIDs returns the ids of every product the seller owns.
func sellerProductIDs(c *gin.Context, db *mongo.Database, sellerID primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	cur, err := db.Collection("products").Find(c.Request.Context(), bson.M{"seller": sellerID})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cur.All(c.Request.Context(), &products); err != nil {
		return nil, err
	}
	ids := map[primitive.ObjectID]bool{}
	for _, p := range products {
		ids[p.ID] = true
	}
	return ids, nil
}

func ShipOrderHandler(c *gin.Context, db *mongo.Database) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}
	var order models.Order
	err = db.Collection("orders").FindOne(c.Request.Context(), bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	ids, err := sellerProductIDs(c, db, user.ID)
	if err != nil {
		log.Println("ship order:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	if !order.ContainsSellerItem(ids) {
		c.JSON(401, gin.H{"error": "not authorized to update this order"})
		return
	}

	order.MarkShipped(time.Now())
	_, err = db.Collection("orders").UpdateOne(c.Request.Context(), bson.M{"_id": orderID}, bson.M{"$set": bson.M{
		"isShipped": order.IsShipped,
		"shippedAt": order.ShippedAt,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("ship order:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, order)
}

func MySalesHandler(c *gin.Context, db *mongo.Database) {
	user, _ := middleware.CurrentUser(c)
	ids, err := sellerProductIDs(c, db, user.ID)
	if err != nil {
		log.Println("my sales:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	idList := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	if len(idList) == 0 {
		c.JSON(200, []orderResponse{})
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := db.Collection("orders").Find(c.Request.Context(), bson.M{"orderItems.product": bson.M{"$in": idList}}, opts)
	if err != nil {
		log.Println("my sales:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	var orders []models.Order
	if err := cur.All(c.Request.Context(), &orders); err != nil {
		log.Println("my sales:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	buyers := buyerSummaries(c, db, orders)
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		// Strip foreign line items so this seller only sees their own.
		order.OrderItems = order.ItemsForSeller(ids)
		resp := orderResponse{Order: order, Status: order.Status()}
		if b, ok := buyers[order.User]; ok {
			resp.BuyerInfo = &b
		}
		out = append(out, resp)
	}
	c.JSON(200, out)
}

func buyerSummaries(c *gin.Context, db *mongo.Database, orders []models.Order) map[primitive.ObjectID]userSummary {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, o := range orders {
		if !seen[o.User] {
			seen[o.User] = true
			ids = append(ids, o.User)
		}
	}

	out := map[primitive.ObjectID]userSummary{}
	if len(ids) == 0 {
		return out
	}
	cur, err := db.Collection("users").Find(c.Request.Context(), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Println("buyer lookup:", err)
		return out
	}
	var users []models.User
	if err := cur.All(c.Request.Context(), &users); err != nil {
		log.Println("buyer lookup:", err)
		return out
	}
	for _, u := range users {
		out[u.ID] = userSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return out
}
