package http

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/krishna-gitAcc/hospital-management-project/internal/adapters/transport/http/dto"
	appsvc "github.com/krishna-gitAcc/hospital-management-project/internal/app/auth/service"
	authErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
)

type Handler struct {
	svc appsvc.Service
	log *zap.Logger
}

func NewHandler(svc appsvc.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login/token", h.loginToken)
	auth.POST("/login/basic", h.loginBasic)
	auth.POST("/login/session", h.loginSession)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
}

type authResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

func toResponse(res model.AuthResult) authResponse {
	return authResponse{
		UserID:       res.UserID.String(),
		Email:        res.Email,
		Role:         string(res.Role),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		SessionID:    res.SessionID,
		ExpiresIn:    int64(res.AccessTTL.Seconds()),
	}
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := model.ParseRole(c.DefaultQuery("role", string(model.RolePatient)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("/auth/register",
		zap.String("user", fmt.Sprintf("%x", sha256.Sum256([]byte(body.Email)))),
		zap.String("role", string(role)),
	)

	res, err := h.svc.Register(c.Request.Context(), body, role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

func (h *Handler) loginToken(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("/auth/login/token",
		zap.String("user", fmt.Sprintf("%x", sha256.Sum256([]byte(body.Email)))),
	)

	res, err := h.svc.LoginToken(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

func (h *Handler) loginBasic(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.LoginBasic(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

func (h *Handler) loginSession(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.LoginSession(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

// Access tokens are stateless and cannot be revoked here; logout is a
// client-side convention.
func (h *Handler) logout(c *gin.Context) {
	h.log.Info("/auth/logout")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case authErrors.IsInvalidToken(err), authErrors.IsNotFound(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	case authErrors.IsStoreUnavailable(err):
		h.log.Error("store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	default:
		h.log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
