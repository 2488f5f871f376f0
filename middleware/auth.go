package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace-backend/config"
	"marketplace-backend/models"
	"marketplace-backend/token"
)

const userKey = "user"

// AuthRequired verifies the bearer credential, resolves the account and
// attaches it (password cleared) to the context. Everything downstream
// reads the account through CurrentUser.
func AuthRequired(db *mongo.Database, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := token.Parse(cfg, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, invalid token"})
			return
		}

		var user models.User
		err = db.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, user not found"})
			return
		}

		SetCurrentUser(c, user.Public())
		c.Next()
	}
}

// SellerRequired admits sellers and admins. Must run after AuthRequired.
func SellerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsSeller() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "seller account required"})
			return
		}
		c.Next()
	}
}

// AdminRequired admits admins only. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account attached by AuthRequired.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// SetCurrentUser attaches an account to the context. Exposed for tests and
// for AuthRequired itself.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(userKey, user)
}
