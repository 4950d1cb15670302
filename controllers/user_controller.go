package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catering-backend/services"
	"catering-backend/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Users: svc}
}

// GetUsers (GET /api/users?role=)
func (ctrl *UserController) GetUsers(c *gin.Context) {
	users, err := ctrl.Users.List(c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", users)
}

func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := ctrl.Users.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", u)
}

func (ctrl *UserController) CreateUser(c *gin.Context) {
	var in services.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := ctrl.Users.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "success.created", u)
}

func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := ctrl.Users.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", u)
}

// DeactivateUser (DELETE /api/users/:id) ปิดการใช้งาน ไม่ลบจริง
func (ctrl *UserController) DeactivateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Users.Deactivate(id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.deleted", gin.H{"id": id})
}
