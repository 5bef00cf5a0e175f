package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk/internal/blacklist"
	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/doctors"
	"github.com/clinicdesk/clinicdesk/internal/tokens"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

type SignupRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Specialty string `json:"specialty" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies for the signup/login/logout routes
type AuthHandler struct {
	cfg        *config.Config
	doctorsSvc *doctors.Service
}

func NewAuthHandler(cfg *config.Config, d *doctors.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, doctorsSvc: d}
}

// Register routes under /auth. Signup and login are unauthenticated; logout
// sits behind the auth middleware because it acts on the presented token.
func (h *AuthHandler) Register(public, protected *gin.RouterGroup) {
	a := public.Group("/auth")
	a.POST("/signup", h.Signup)
	a.POST("/login", h.Login)
	protected.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	d, err := h.doctorsSvc.Signup(c.Request.Context(), req.Name, strings.ToLower(req.Email), req.Password, req.Specialty)
	if err != nil {
		if errors.Is(err, doctors.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		logger.Errorf("signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Signup failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Doctor registered successfully", "doctor": d})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	d, err := h.doctorsSvc.Login(c.Request.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, doctors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		logger.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	access, err := tokens.GenerateAccessToken(h.cfg, d, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("token generation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": access, "doctor": d})
}

// Logout blacklists the presented token for its remaining lifetime.
// Without Redis the blacklist is a no-op and logout is purely client-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	ttl := h.cfg.JWT.AccessTokenTTL
	if claims, err := tokens.VerifyAccessToken(h.cfg.JWT.Secret, raw); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := blacklist.Add(c.Request.Context(), raw, ttl); err != nil {
		logger.Warnf("logout blacklist: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
