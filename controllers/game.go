package controllers

import (
	"context"
	"net/http"
	"strconv"

	"guildhall/models"
	"guildhall/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

type GameController struct {
	gameService services.GameService
}

func NewGameController(gameService services.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (ctl *GameController) RegisterRoutes(ws *restful.WebService, protect Protector) {
	tags := []string{"games"}
	gameID := ws.PathParameter("game-id", "Identifier of the game").DataType("integer")

	ws.Route(ws.GET("/games").To(ctl.listHandler).
		Doc("List games with their game master and players").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes([]GameResponse{}).
		Returns(http.StatusOK, "OK", []GameResponse{}))

	ws.Route(protect(ws.POST("/systems")).To(ctl.createSystemHandler).
		Doc("Register a rule system (requires games:manage)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateSystemInput{}).
		Returns(http.StatusCreated, "Created", SystemResponse{}).
		Returns(http.StatusForbidden, "Forbidden", MessageResponse{}).
		Returns(http.StatusConflict, "System already exists", MessageResponse{}))

	ws.Route(protect(ws.POST("/games")).To(ctl.createGameHandler).
		Doc("Open a game run by the requesting game master").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CreateGameInput{}).
		Returns(http.StatusCreated, "Created", GameResponse{}).
		Returns(http.StatusForbidden, "Only game masters can create games", MessageResponse{}).
		Returns(http.StatusConflict, "Game already exists", MessageResponse{}))

	ws.Route(protect(ws.POST("/games/{game-id}/players")).To(ctl.joinHandler).
		Doc("Take a seat in the game").
		Param(gameID).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Joined", GameResponse{}).
		Returns(http.StatusConflict, "Game is full", MessageResponse{}).
		Returns(http.StatusNotFound, "Game not found", MessageResponse{}))

	ws.Route(protect(ws.DELETE("/games/{game-id}/players")).To(ctl.leaveHandler).
		Doc("Give up the seat in the game").
		Param(gameID).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Left", GameResponse{}).
		Returns(http.StatusNotFound, "Game not found", MessageResponse{}))
}

func (ctl *GameController) listHandler(request *restful.Request, response *restful.Response) {
	games, err := ctl.gameService.ListGames(request.Request.Context())
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapGames(games), restful.MIME_JSON)
}

func (ctl *GameController) createSystemHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	input := new(services.CreateSystemInput)
	if !readEntity(request, response, input) {
		return
	}
	system, err := ctl.gameService.CreateSystem(request.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, SystemResponse{
		ID:          system.ID,
		Name:        system.Name,
		Description: system.Description,
	}, restful.MIME_JSON)
}

func (ctl *GameController) createGameHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	input := new(services.CreateGameInput)
	if !readEntity(request, response, input) {
		return
	}
	game, err := ctl.gameService.CreateGame(request.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusCreated, mapGame(game), restful.MIME_JSON)
}

func (ctl *GameController) joinHandler(request *restful.Request, response *restful.Response) {
	ctl.changeSeat(request, response, ctl.gameService.JoinGame)
}

func (ctl *GameController) leaveHandler(request *restful.Request, response *restful.Response) {
	ctl.changeSeat(request, response, ctl.gameService.LeaveGame)
}

type seatChange func(ctx context.Context, actorID, gameID uint) (*models.Game, error)

func (ctl *GameController) changeSeat(request *restful.Request, response *restful.Response, change seatChange) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}
	gameID, err := strconv.ParseUint(request.PathParameter("game-id"), 10, 32)
	if err != nil {
		writeMessage(response, http.StatusBadRequest, "Invalid game ID format")
		return
	}
	game, err := change(request.Request.Context(), userID, uint(gameID))
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapGame(game), restful.MIME_JSON)
}
