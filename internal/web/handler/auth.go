package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/domain"
)

// AuthHandler proxies account operations to the backend after local
// validation.
type AuthHandler struct {
	client *backend.Client
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(client *backend.Client) *AuthHandler {
	return &AuthHandler{client: client}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login request: " + err.Error()})
		return
	}

	if fieldErrs := validateLogin(req.Username, req.Password); len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": fieldErrs})
		return
	}

	result, err := h.client.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid register request: " + err.Error()})
		return
	}

	if fieldErrs := validateRegister(req.Username, req.Email, req.Password); len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": fieldErrs})
		return
	}

	result, err := h.client.Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.client.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
