package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ViacheslavGIT/MegaMart/internal/shop"
)

type AuthHandler struct {
	accounts *shop.Accounts
}

func NewAuthHandler(accounts *shop.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, session)
}
