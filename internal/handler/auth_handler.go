package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hillview/occupancy-backend-go/pkg/response"
)

// AuthHandler issues API tokens
type AuthHandler struct {
	secret string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{secret: secret}
}

// tokenRequest is the payload for requesting an API token
type tokenRequest struct {
	Client string `json:"client" binding:"required"`
}

// IssueToken handles POST /api/v1/auth/token. The caller must present the
// shared server secret in the X-Api-Secret header; the issued token is good
// for 24 hours.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	if c.GetHeader("X-Api-Secret") != h.secret {
		response.Error(c, http.StatusUnauthorized, "Bad API secret", nil)
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid token request", err)
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Client,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	})

	signed, err := token.SignedString([]byte(h.secret))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to sign token", err)
		return
	}

	response.Success(c, gin.H{"token": signed})
}
