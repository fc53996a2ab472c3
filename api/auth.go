package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/bookingapi"
	"github.com/gin-gonic/gin"
)

// AuthUseCase is served by the booking API client directly.
type AuthUseCase interface {
	Login(ctx context.Context, creds bookingapi.Credentials) (string, error)
	Register(ctx context.Context, reg bookingapi.Registration) (*bookingapi.Account, error)
}

type AuthHandler struct {
	service AuthUseCase
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

type accountResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	IsActive    bool   `json:"is_active"`
}

func NewAuthHandler(service AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	group := router.Group("/auth", mutating...)
	group.POST("/login", h.login)
	group.POST("/register", h.register)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	token, err := h.service.Login(c.Request.Context(), bookingapi.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	acc, err := h.service.Register(c.Request.Context(), bookingapi.Registration{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, accountResponse{
		ID:          acc.ID,
		Email:       acc.Email,
		FullName:    acc.FullName,
		PhoneNumber: acc.PhoneNumber,
		IsActive:    acc.IsActive,
	})
}
