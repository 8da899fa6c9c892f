package controllers

import (
	"net/http"

	"guildhall/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

type WeaponController struct {
	weaponService services.WeaponService
}

func NewWeaponController(weaponService services.WeaponService) *WeaponController {
	return &WeaponController{weaponService: weaponService}
}

func (ctl *WeaponController) RegisterRoutes(ws *restful.WebService, protect Protector) {
	tags := []string{"weapons"}

	ws.Route(ws.GET("/weapons").To(ctl.listHandler).
		Doc("The weapon catalog").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]WeaponResponse{}).
		Returns(http.StatusOK, "OK", []WeaponResponse{}))

	ws.Route(protect(ws.POST("/weapons")).To(ctl.createHandler).
		Doc("Add a weapon to the catalog (requires weapons:manage)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateWeaponInput{}).
		Returns(http.StatusCreated, "Created", WeaponResponse{}).
		Returns(http.StatusForbidden, "Forbidden", MessageResponse{}).
		Returns(http.StatusConflict, "Weapon already exists", MessageResponse{}))
}

func (ctl *WeaponController) listHandler(request *restful.Request, response *restful.Response) {
	weapons, err := ctl.weaponService.ListWeapons(request.Request.Context())
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapWeapons(weapons), restful.MIME_JSON)
}

func (ctl *WeaponController) createHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	input := new(services.CreateWeaponInput)
	if !readEntity(request, response, input) {
		return
	}
	weapon, err := ctl.weaponService.CreateWeapon(request.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, mapWeapon(weapon), restful.MIME_JSON)
}
