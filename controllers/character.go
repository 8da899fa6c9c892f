package controllers

import (
	"net/http"

	"guildhall/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

type CharacterController struct {
	characterService services.CharacterService
}

func NewCharacterController(characterService services.CharacterService) *CharacterController {
	return &CharacterController{characterService: characterService}
}

func (ctl *CharacterController) RegisterRoutes(ws *restful.WebService, protect Protector) {
	tags := []string{"characters"}
	weapon := ws.PathParameter("weapon", "Name of a catalog weapon")

	ws.Route(protect(ws.GET("/characters/me")).To(ctl.getHandler).
		Doc("The requesting user's character sheet and inventory").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(CharacterResponse{}).
		Returns(http.StatusOK, "OK", CharacterResponse{}).
		Returns(http.StatusNotFound, "No character", MessageResponse{}))

	ws.Route(protect(ws.PUT("/characters/me")).To(ctl.updateHandler).
		Doc("Edit the requesting user's character sheet").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateCharacterInput{}).
		Writes(CharacterResponse{}).
		Returns(http.StatusOK, "Updated", CharacterResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusConflict, "Character name taken", MessageResponse{}))

	ws.Route(protect(ws.POST("/characters/me/weapons/{weapon}")).To(ctl.equipHandler).
		Doc("Add a weapon to the inventory").
		Param(weapon).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(CharacterResponse{}).
		Returns(http.StatusOK, "Equipped", CharacterResponse{}).
		Returns(http.StatusNotFound, "Weapon or character not found", MessageResponse{}))

	ws.Route(protect(ws.DELETE("/characters/me/weapons/{weapon}")).To(ctl.unequipHandler).
		Doc("Remove a weapon from the inventory").
		Param(weapon).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(CharacterResponse{}).
		Returns(http.StatusOK, "Unequipped", CharacterResponse{}).
		Returns(http.StatusNotFound, "Weapon or character not found", MessageResponse{}))
}

func (ctl *CharacterController) getHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	char, err := ctl.characterService.GetCharacter(request.Request.Context(), userID)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapCharacter(char), restful.MIME_JSON)
}

func (ctl *CharacterController) updateHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	input := new(services.UpdateCharacterInput)
	if !readEntity(request, response, input) {
		return
	}
	char, err := ctl.characterService.UpdateCharacter(request.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapCharacter(char), restful.MIME_JSON)
}

func (ctl *CharacterController) equipHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	char, err := ctl.characterService.EquipWeapon(request.Request.Context(), userID, request.PathParameter("weapon"))
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapCharacter(char), restful.MIME_JSON)
}

func (ctl *CharacterController) unequipHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	char, err := ctl.characterService.UnequipWeapon(request.Request.Context(), userID, request.PathParameter("weapon"))
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapCharacter(char), restful.MIME_JSON)
}
