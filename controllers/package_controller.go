package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catering-backend/services"
	"catering-backend/utils"
)

type PackageController struct {
	Packages *services.PackageService
	Uploads  *services.UploadService
}

func NewPackageController(pkgs *services.PackageService, uploads *services.UploadService) *PackageController {
	return &PackageController{Packages: pkgs, Uploads: uploads}
}

// GetPackages (GET /api/menu-packages?active=false)
func (ctrl *PackageController) GetPackages(c *gin.Context) {
	pkgs, err := ctrl.Packages.List(c.Query("active") != "false")
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", pkgs)
}

func (ctrl *PackageController) GetPackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.Packages.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", p)
}

func (ctrl *PackageController) CreatePackage(c *gin.Context) {
	var in services.PackageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p, err := ctrl.Packages.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "success.created", p)
}

func (ctrl *PackageController) UpdatePackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.PackageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p, err := ctrl.Packages.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", p)
}

func (ctrl *PackageController) DeletePackage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Packages.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.deleted", gin.H{"id": id})
}

func (ctrl *PackageController) UploadImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	saveImage(c, ctrl.Uploads, services.PackageImageRule, func(path string) (interface{}, string, error) {
		return ctrl.Packages.SetImage(id, path)
	})
}
