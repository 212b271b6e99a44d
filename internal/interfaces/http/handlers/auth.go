// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/auth"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
)

// AuthHandler handles login, OTP and session endpoints
type AuthHandler struct {
	auth     *auth.Service
	sessions *session.Manager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.PasswordLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	identity, err := h.auth.LoginWithPassword(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    identity,
	})
}

// SendOTP handles POST /auth/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req auth.SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.SendOTP(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Failed to send OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent successfully",
	})
}

// VerifyOTP handles POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req auth.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	identity, err := h.auth.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "OTP verification failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    identity,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to logout",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetSession handles GET /auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	identity, ok := h.sessions.Identity(ctx)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "Not logged in",
			"data": gin.H{
				"state": session.LoggedOut.String(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data": gin.H{
			"state":    session.LoggedIn.String(),
			"identity": identity,
			"is_admin": identity.IsAdmin(),
		},
	})
}
