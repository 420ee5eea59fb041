// README: Registration and login handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/user"
)

type AuthHandler struct {
	users *user.Service
}

func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerReq struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	FullName    string  `json:"full_name" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role" binding:"required,oneof=rider driver"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), user.RegisterCommand{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        user.Role(req.Role),
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	u, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"user": u, "token": token})
}
