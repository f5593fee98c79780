package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := ah.authService.Signup(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

func (ah *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sess, err := ah.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondFromError(c, ah.log, err)
		return
	}
	response.RespondOK(c, sess)
}
