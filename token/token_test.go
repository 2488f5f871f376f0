package token

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-backend/config"
	"marketplace-backend/models"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func TestGenerateParseRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleSeller}

	tokenString, err := Generate(cfg, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := Parse(cfg, tokenString)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("expected userId %s, got %s", user.ID.Hex(), claims.UserID)
	}
	if claims.Role != models.RoleSeller {
		t.Errorf("expected role seller, got %s", claims.Role)
	}
}

func TestParseWrongSecret(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleBuyer}
	tokenString, err := Generate(config.Config{JWTSecret: "one"}, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := Parse(config.Config{JWTSecret: "another"}, tokenString); err == nil {
		t.Error("expected signature verification to fail")
	}
}

func TestParseExpired(t *testing.T) {
	cfg := testConfig()
	claims := Claims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   models.RoleBuyer,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Parse(cfg, expired); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse(testConfig(), "not-a-token"); err == nil {
		t.Error("expected malformed token to fail")
	}
}
