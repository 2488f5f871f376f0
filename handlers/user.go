package handlers

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/config"
	"marketplace-backend/middleware"
	"marketplace-backend/models"
)

func UpdateAvatarHandler(c *gin.Context, db *mongo.Database, cfg config.Config) {
	user, _ := middleware.CurrentUser(c)

	avatarPath, err := saveUploadedImage(c, "avatar", filepath.Join(cfg.UploadDir, "avatars"))
	if err != nil {
		c.JSON(400, gin.H{"error": "avatar file is required (jpg, jpeg, png)"})
		return
	}

	_, err = db.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"avatar":    avatarPath,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("avatar update:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	user.Avatar = avatarPath
	c.JSON(200, user.Public())
}

type updateDetailsRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
}

func UpdateDetailsHandler(c *gin.Context, db *mongo.Database) {
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.CurrentPassword == "" {
		c.JSON(400, gin.H{"error": "current password is required to update details"})
		return
	}

	// The context copy has the password cleared; reload for the hash.
	ctxUser, _ := middleware.CurrentUser(c)
	var user models.User
	err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": ctxUser.ID}).Decode(&user)
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		c.JSON(401, gin.H{"error": "current password is wrong"})
		return
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			count, err := db.Collection("users").CountDocuments(c.Request.Context(), bson.M{"email": email})
			if err != nil {
				log.Println("details update:", err)
				c.JSON(500, gin.H{"error": "server error"})
				return
			}
			if count > 0 {
				c.JSON(400, gin.H{"error": "email already registered"})
				return
			}
			user.Email = email
		}
	}
	if req.Username != "" {
		user.Username = strings.TrimSpace(req.Username)
	}

	_, err = db.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"username":  user.Username,
		"email":     user.Email,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("details update:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, user.Public())
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func UpdatePasswordHandler(c *gin.Context, db *mongo.Database) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(400, gin.H{"error": "current and new password are both required"})
		return
	}

	ctxUser, _ := middleware.CurrentUser(c)
	var user models.User
	err := db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": ctxUser.ID}).Decode(&user)
	if err != nil {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		c.JSON(401, gin.H{"error": "current password is wrong"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Println("password update:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}

	_, err = db.Collection("users").UpdateOne(c.Request.Context(), bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"password":  string(hashed),
		"updatedAt": time.Now(),
	}})
	if err != nil {
		log.Println("password update:", err)
		c.JSON(500, gin.H{"error": "server error"})
		return
	}
	c.JSON(200, gin.H{"message": "password has been updated"})
}
