package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-backend/config"
	"marketplace-backend/middleware"
	"marketplace-backend/models"
)

func AdminListOrdersHandler(c *gin.Context, db *mongo.Database) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := db.Collection("orders").Find(c.Request.Context(), bson.M{}, opts)
	if err != nil {
		log.Println("admin orders:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	var orders []models.Order
	if err := cur.All(c.Request.Context(), &orders); err != nil {
		log.Println("admin orders:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	buyers := buyerSummaries(c, db, orders)
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp := orderResponse{Order: order, Status: order.Status()}
		if b, ok := buyers[order.User]; ok {
			resp.BuyerInfo = &b
		}
		out = append(out, resp)
	}
	c.JSON(200, out)
}

// markOrder applies one flag mutation and persists the touched fields.
func markOrder(c *gin.Context, db *mongo.Database, mutate func(*models.Order, time.Time), fields func(models.Order) bson.M) {
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

	mutate(&order, time.Now())

	set := fields(order)
	set["updatedAt"] = time.Now()
	_, err = db.Collection("orders").UpdateOne(c.Request.Context(), bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		log.Println("admin mark order:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, order)
}

func AdminPayOrderHandler(c *gin.Context, db *mongo.Database) {
	markOrder(c, db,
		func(o *models.Order, now time.Time) { o.MarkPaid(now) },
		func(o models.Order) bson.M { return bson.M{"isPaid": o.IsPaid, "paidAt": o.PaidAt} })
}

func AdminDeliverOrderHandler(c *gin.Context, db *mongo.Database) {
	markOrder(c, db,
		func(o *models.Order, now time.Time) { o.MarkDelivered(now) },
		func(o models.Order) bson.M { return bson.M{"isDelivered": o.IsDelivered, "deliveredAt": o.DeliveredAt} })
}

func listUsers(c *gin.Context, db *mongo.Database) ([]models.User, error) {
	cur, err := db.Collection("users").Find(c.Request.Context(), bson.M{})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(c.Request.Context(), &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func AdminListUsersHandler(c *gin.Context, db *mongo.Database) {
	users, err := listUsers(c, db)
	if err != nil {
		log.Println("admin users:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, users)
}

func AdminBanUserHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}
	var user models.User
	err = db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	if err := user.BanCheck(cfg.SuperAdminEmail); err != nil {
		status := 400
		if err == models.ErrBanSuperAdmin {
			status = 403
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	_, err = db.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"isBanned":  true,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("ban user:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	users, err := listUsers(c, db)
	if err != nil {
		log.Println("ban user:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, users)
}

func AdminUnbanUserHandler(c *gin.Context, db *mongo.Database) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}
	res, err := db.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"isBanned":  false,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("unban user:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	users, err := listUsers(c, db)
	if err != nil {
		log.Println("unban user:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, users)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func AdminSetRoleHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	var user models.User
	err = db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	caller, _ := middleware.CurrentUser(c)
	if err := user.RoleChangeCheck(caller.ID, cfg.SuperAdminEmail); err != nil {
		status := 400
		if err == models.ErrRoleSuperAdmin {
			status = 403
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		c.JSON(400, gin.H{"error": "invalid role specified"})
		return
	}

	_, err = db.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"role":      role,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("set role:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	users, err := listUsers(c, db)
	if err != nil {
		log.Println("set role:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, users)
}
