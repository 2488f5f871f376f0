package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/config"
	"marketplace-backend/models"
	"marketplace-backend/token"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func SignupHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "please enter all fields"})
		return
	}

	// Public signup never hands out admin.
	role := models.RoleBuyer
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok || parsed == models.RoleAdmin {
			c.JSON(400, gin.H{"error": "invalid role specified"})
			return
		}
		role = parsed
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	count, err := db.Collection("users").CountDocuments(c.Request.Context(), bson.M{"email": email})
	if err != nil {
		log.Println("signup lookup:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	if count > 0 {
		c.JSON(400, gin.H{"error": "user already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("signup hash:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	now := time.Now()
	user := models.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		Avatar:    models.DefaultAvatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := db.Collection("users").InsertOne(c.Request.Context(), user)
	if err != nil {
		log.Println("signup insert:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	tokenString, err := token.Generate(cfg, user)
	if err != nil {
		log.Println("signup token:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	c.JSON(201, gin.H{"token": tokenString, "user": user.Public()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func LoginHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "please enter all fields"})
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"email": email}).Decode(&user)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid credentials"})
		return
	}

	if err := user.VerifyLogin(req.Password); err != nil {
		if err == models.ErrAccountBanned {
			c.JSON(403, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	tokenString, err := token.Generate(cfg, user)
	if err != nil {
		log.Println("login token:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	c.JSON(200, gin.H{"token": tokenString, "user": user.Public()})
}
