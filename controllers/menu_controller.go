package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catering-backend/services"
	"catering-backend/utils"
)

type MenuController struct {
	Menus   *services.MenuService
	Uploads *services.UploadService
}

func NewMenuController(menus *services.MenuService, uploads *services.UploadService) *MenuController {
	return &MenuController{Menus: menus, Uploads: uploads}
}

// GetMenus (GET /api/menus?category=&q=&active=false)
func (ctrl *MenuController) GetMenus(c *gin.Context) {
	menus, err := ctrl.Menus.List(services.MenuFilter{
		Category:   c.Query("category"),
		ActiveOnly: c.Query("active") != "false",
		Query:      c.Query("q"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", menus)
}

func (ctrl *MenuController) GetMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := ctrl.Menus.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", m)
}

func (ctrl *MenuController) CreateMenu(c *gin.Context) {
	var in services.MenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	m, err := ctrl.Menus.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "success.created", m)
}

func (ctrl *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.MenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	m, err := ctrl.Menus.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", m)
}

func (ctrl *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Menus.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.deleted", gin.H{"id": id})
}

// UploadImage (POST /api/menus/:id/image) form field "image"
func (ctrl *MenuController) UploadImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	saveImage(c, ctrl.Uploads, services.MenuImageRule, func(path string) (interface{}, string, error) {
		return ctrl.Menus.SetImage(id, path)
	})
}

// saveImage stores the "image" form file, hands its path to apply and
// removes whichever file lost: the new one on failure, the old one on success.
func saveImage(c *gin.Context, uploads *services.UploadService, rule services.UploadRule, apply func(path string) (interface{}, string, error)) {
	fh, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "upload.required", nil)
		return
	}
	path, err := uploads.Save(fh, rule)
	if err != nil {
		respondError(c, err)
		return
	}
	data, old, err := apply(path)
	if err != nil {
		uploads.Remove(path)
		respondError(c, err)
		return
	}
	if old != "" && old != path {
		uploads.Remove(old)
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", data)
}
