package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace-backend/config"
	"marketplace-backend/middleware"
	"marketplace-backend/models"
)

type userSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email,omitempty"`
}

type productResponse struct {
	models.Product
	SellerInfo *userSummary `json:"sellerInfo,omitempty"`
}

func ListProductsHandler(c *gin.Context, db *mongo.Database) {
	cur, err := db.Collection("products").Find(c.Request.Context(), bson.M{})
	if err != nil {
		log.Println("list products:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	var products []models.Product
	if err := cur.All(c.Request.Context(), &products); err != nil {
		log.Println("list products:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	sellers := sellerSummaries(c, db, products)
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp := productResponse{Product: p}
		if s, ok := sellers[p.Seller]; ok {
			resp.SellerInfo = &s
		}
		out = append(out, resp)
	}
	c.JSON(200, out)
}

// sellerSummaries loads username/email for every distinct seller in one
// query. Missing sellers are simply absent from the map.
func sellerSummaries(c *gin.Context, db *mongo.Database, products []models.Product) map[primitive.ObjectID]userSummary {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, p := range products {
		if !seen[p.Seller] {
			seen[p.Seller] = true
			ids = append(ids, p.Seller)
		}
	}

	out := map[primitive.ObjectID]userSummary{}
	if len(ids) == 0 {
		return out
	}
	cur, err := db.Collection("users").Find(c.Request.Context(), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Println("seller lookup:", err)
		return out
	}
	var users []models.User
	if err := cur.All(c.Request.Context(), &users); err != nil {
		log.Println("seller lookup:", err)
		return out
	}
	for _, u := range users {
		out[u.ID] = userSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return out
}

func GetProductHandler(c *gin.Context, db *mongo.Database) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	var product models.Product
	err = db.Collection("products").FindOne(c.Request.Context(), bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}

	resp := productResponse{Product: product}
	var seller models.User
	if db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": product.Seller}).Decode(&seller) == nil {
		resp.SellerInfo = &userSummary{ID: seller.ID, Username: seller.Username}
	}
	c.JSON(200, resp)
}

func MyProductsHandler(c *gin.Context, db *mongo.Database) {
	user, _ := middleware.CurrentUser(c)
	cur, err := db.Collection("products").Find(c.Request.Context(), bson.M{"seller": user.ID})
	if err != nil {
		log.Println("my products:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	products := []models.Product{}
	if err := cur.All(c.Request.Context(), &products); err != nil {
		log.Println("my products:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, products)
}

func CreateProductHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	price, priceErr := strconv.ParseFloat(c.PostForm("price"), 64)
	stock, stockErr := strconv.Atoi(c.DefaultPostForm("stock", "1"))
	if name == "" || description == "" || priceErr != nil || price < 0 || stockErr != nil || stock < 0 {
		c.JSON(400, gin.H{"error": "invalid product fields"})
		return
	}

	imageURL, err := saveUploadedImage(c, "image", cfg.UploadDir)
	if err == http.ErrMissingFile {
		c.JSON(400, gin.H{"error": "image file is required"})
		return
	}
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)
	now := time.Now()
	product := models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		Stock:       stock,
		Seller:      user.ID,
		Reviews:     []models.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := db.Collection("products").InsertOne(c.Request.Context(), product)
	if err != nil {
		log.Println("create product:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	c.JSON(201, product)
}

func UpdateProductHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	var product models.Product
	err = db.Collection("products").FindOne(c.Request.Context(), bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if product.Seller != user.ID {
		c.JSON(401, gin.H{"error": "not authorized"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		product.Name = name
	}
	if description := c.PostForm("description"); description != "" {
		product.Description = description
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(400, gin.H{"error": "invalid price"})
			return
		}
		product.Price = price
	}
	if stockStr := c.PostForm("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			c.JSON(400, gin.H{"error": "invalid stock"})
			return
		}
		product.Stock = stock
	}

	// Image is optional on update; the old one stays if none is sent.
	imageURL, err := saveUploadedImage(c, "image", cfg.UploadDir)
	if err == nil {
		product.ImageURL = imageURL
	} else if err != http.ErrMissingFile {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	product.UpdatedAt = time.Now()
	_, err = db.Collection("products").ReplaceOne(c.Request.Context(), bson.M{"_id": productID}, product)
	if err != nil {
		log.Println("update product:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, product)
}

func DeleteProductHandler(c *gin.Context, db *mongo.Database) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	var product models.Product
	err = db.Collection("products").FindOne(c.Request.Context(), bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if product.Seller != user.ID {
		c.JSON(401, gin.H{"error": "not authorized"})
		return
	}

	// Unconditional removal. Order line items keep their snapshots.
	_, err = db.Collection("products").DeleteOne(c.Request.Context(), bson.M{"_id": productID})
	if err != nil {
		log.Println("delete product:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, gin.H{"message": "product deleted"})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func AddReviewHandler(c *gin.Context, db *mongo.Database) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}

	var product models.Product
	err = db.Collection("products").FindOne(c.Request.Context(), bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if product.Seller == user.ID {
		c.JSON(403, gin.H{"error": "cannot review your own product"})
		return
	}
	if product.ReviewedBy(user.ID) {
		c.JSON(400, gin.H{"error": "already reviewed this product"})
		return
	}

	// Only buyers who received the product may review it.
	delivered, err := db.Collection("orders").CountDocuments(c.Request.Context(), bson.M{
		"user":               user.ID,
		"isDelivered":        true,
		"orderItems.product": productID,
	})
	if err != nil {
		log.Println("review eligibility:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	if delivered == 0 {
		c.JSON(403, gin.H{"error": "must purchase and receive this product to review it"})
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Name:      user.Username,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := product.AddReview(review); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	_, err = db.Collection("products").UpdateOne(c.Request.Context(), bson.M{"_id": productID}, bson.M{"$set": bson.M{
		"reviews":    product.Reviews,
		"rating":     product.Rating,
		"numReviews": product.NumReviews,
		"updatedAt":  time.Now(),
	}})
	if err != nil {
		log.Println("add review:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(201, gin.H{"message": "review added", "product": product})
}
