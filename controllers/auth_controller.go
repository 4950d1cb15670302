package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catering-backend/middleware"
	"catering-backend/services"
	"catering-backend/utils"
)

type registerPayload struct {
	Title     string `json:"title"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,thphone"`
	Password  string `json:"password" binding:"required,min=6"`
}

type loginPayload struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth  *services.AuthService
	Users *services.UserService
}

func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{Auth: auth, Users: users}
}

// Register (POST /api/auth/register)
func (ctrl *AuthController) Register(c *gin.Context) {
	var p registerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	u, err := ctrl.Users.Register(services.UserInput{
		Title:     p.Title,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		Email:     p.Email,
		Phone:     p.Phone,
		Password:  p.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "success.created", u)
}

// Login (POST /api/auth/login) รับ username, email หรือเบอร์โทร
func (ctrl *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	id := p.Identifier
	if id == "" {
		id = p.Username
	}
	res, err := ctrl.Auth.Login(services.LoginInput{Identifier: id, Password: p.Password})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.login", res)
}

// Me (GET /api/auth/me)
func (ctrl *AuthController) Me(c *gin.Context) {
	u, err := ctrl.Users.Get(middleware.Actor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", u)
}
