package controllers

import (
	"net/http"

	"guildhall/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// TeamController exposes the directed team graph of the requesting user.
type TeamController struct {
	teamService services.TeamService
}

func NewTeamController(teamService services.TeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

func (ctl *TeamController) RegisterRoutes(ws *restful.WebService, protect Protector) {
	tags := []string{"team"}
	username := ws.PathParameter("username", "Username of the other user")

	ws.Route(protect(ws.GET("/team")).To(ctl.teamHandler).
		Doc("Users the requesting user has added").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]UserResponse{}).
		Returns(http.StatusOK, "OK", []UserResponse{}))

	ws.Route(protect(ws.GET("/team/teammates")).To(ctl.teammatesHandler).
		Doc("Users who have added the requesting user").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]UserResponse{}).
		Returns(http.StatusOK, "OK", []UserResponse{}))

	ws.Route(protect(ws.GET("/team/characters")).To(ctl.teamCharactersHandler).
		Doc("Own character plus the characters of every added user, by name descending").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]CharacterResponse{}).
		Returns(http.StatusOK, "OK", []CharacterResponse{}))

	ws.Route(protect(ws.GET("/team/{username}")).To(ctl.inTeamHandler).
		Doc("Whether the requesting user has added the named user").
		Param(username).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(InTeamResponse{}).
		Returns(http.StatusOK, "OK", InTeamResponse{}).
		Returns(http.StatusNotFound, "User not found", MessageResponse{}))

	ws.Route(protect(ws.POST("/team/{username}")).To(ctl.joinHandler).
		Doc("Add the named user to the requesting user's team").
		Param(username).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Joined", MessageResponse{}).
		Returns(http.StatusBadRequest, "Cannot team with yourself", MessageResponse{}).
		Returns(http.StatusNotFound, "User not found", MessageResponse{}))

	ws.Route(protect(ws.DELETE("/team/{username}")).To(ctl.leaveHandler).
		Doc("Remove the named user from the requesting user's team").
		Param(username).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Left", MessageResponse{}).
		Returns(http.StatusBadRequest, "Cannot team with yourself", MessageResponse{}).
		Returns(http.StatusNotFound, "User not found", MessageResponse{}))
}

func (ctl *TeamController) teamHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	users, err := ctl.teamService.Team(request.Request.Context(), userID)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapUsers(users), restful.MIME_JSON)
}

func (ctl *TeamController) teammatesHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	users, err := ctl.teamService.Teammates(request.Request.Context(), userID)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapUsers(users), restful.MIME_JSON)
}

func (ctl *TeamController) teamCharactersHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	chars, err := ctl.teamService.TeamCharacters(request.Request.Context(), userID)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapCharacters(chars), restful.MIME_JSON)
}

func (ctl *TeamController) inTeamHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	username := request.PathParameter("username")
	in, err := ctl.teamService.InTeamWithUsername(request.Request.Context(), userID, username)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, InTeamResponse{Username: username, InTeam: in}, restful.MIME_JSON)
}

func (ctl *TeamController) joinHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	target, err := ctl.teamService.JoinTeamByUsername(request.Request.Context(), userID, request.PathParameter("username"))
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	writeMessage(response, http.StatusOK, "You are now in a team with "+target.Username+"!")
}

func (ctl *TeamController) leaveHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	target, err := ctl.teamService.LeaveTeamByUsername(request.Request.Context(), userID, request.PathParameter("username"))
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	writeMessage(response, http.StatusOK, "You are no longer in a team with "+target.Username+".")
}
