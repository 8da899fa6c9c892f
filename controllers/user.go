package controllers

import (
	"net/http"
	"strconv"

	"guildhall/auth"
	"guildhall/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// UserController serves registration, login and profiles.
type UserController struct {
	userService services.UserService
	tokens      *auth.TokenManager
}

func NewUserController(userService services.UserService, tokens *auth.TokenManager) *UserController {
	return &UserController{userService: userService, tokens: tokens}
}

// RegisterRoutes sets up the user-related routes for a go-restful WebService.
func (ctl *UserController) RegisterRoutes(ws *restful.WebService, protect Protector) {
	tags := []string{"users"}

	// --- Public Routes ---
	ws.Route(ws.POST("/users/register").To(ctl.registerHandler).
		Doc("Register a new user and their character").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.RegisterInput{}).
		Returns(http.StatusCreated, "User created successfully", RegisterResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusConflict, "Username, email or character name already exists", MessageResponse{}))

	ws.Route(ws.POST("/login").To(ctl.loginHandler).
		Doc("Exchange credentials for an access token").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(LoginRequest{}).
		Returns(http.StatusOK, "Logged in", TokenResponse{}).
		Returns(http.StatusUnauthorized, "Invalid credentials", MessageResponse{}))

	ws.Route(ws.GET("/users/{username}").To(ctl.profileHandler).
		Doc("Get a user's profile").
		Param(ws.PathParameter("username", "Username of the user")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(ProfileResponse{}).
		Returns(http.StatusOK, "User found", ProfileResponse{}).
		Returns(http.StatusNotFound, "User not found", MessageResponse{}))

	// --- Routes requiring Authentication ---
	ws.Route(protect(ws.POST("/logout")).To(ctl.logoutHandler).
		Doc("Revoke the current access token").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Logged out", MessageResponse{}).
		Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{}))

	ws.Route(protect(ws.PUT("/users/me")).To(ctl.updateMeHandler).
		Doc("Edit the current user's profile").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.UpdateProfileInput{}).
		Writes(UserResponse{}).
		Returns(http.StatusOK, "Profile updated", UserResponse{}).
		Returns(http.StatusBadRequest, "Invalid request body", MessageResponse{}).
		Returns(http.StatusConflict, "Username, email or character name already exists", MessageResponse{}))

	ws.Route(protect(ws.GET("/users")).To(ctl.listUsersHandler).
		Doc("List users with pagination").
		Param(ws.QueryParameter("page", "Page number (default 1)").DataType("integer").DefaultValue("1")).
		Param(ws.QueryParameter("page_size", "Users per page (default 10)").DataType("integer").DefaultValue("10")).
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Writes(PaginatedUsersResponse{}).
		Returns(http.StatusOK, "Users listed successfully", PaginatedUsersResponse{}).
		Returns(http.StatusForbidden, "Forbidden", MessageResponse{}))
}

// registerHandler (Handles POST /users/register)
func (ctl *UserController) registerHandler(request *restful.Request, response *restful.Response) {
	input := new(services.RegisterInput)
	if !readEntity(request, response, input) {
		return
	}

	user, err := ctl.userService.Register(request.Request.Context(), input)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusCreated, RegisterResponse{
		User:      mapUser(user),
		Character: mapCharacter(user.Character),
	}, restful.MIME_JSON)
}

// loginHandler (Handles POST /login)
func (ctl *UserController) loginHandler(request *restful.Request, response *restful.Response) {
	input := new(LoginRequest)
	if !readEntity(request, response, input) {
		return
	}
	if input.Username == "" || input.Password == "" {
		writeMessage(response, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx := request.Request.Context()
	user, err := ctl.userService.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}

	token, err := ctl.tokens.GenerateToken(user)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = ctl.userService.TouchLastSeen(ctx, user.ID)

	_ = response.WriteHeaderAndJson(http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"}, restful.MIME_JSON)
}

// logoutHandler (Handles POST /logout)
func (ctl *UserController) logoutHandler(request *restful.Request, response *restful.Response) {
	claims, ok := auth.RequestClaims(request)
	if !ok {
		writeMessage(response, http.StatusUnauthorized, "Unauthorized: Cannot identify requesting user")
		return
	}
	if err := ctl.tokens.Revoke(request.Request.Context(), claims); err != nil {
		handleServiceError(request, response, err)
		return
	}
	writeMessage(response, http.StatusOK, "Logged out")
}

// profileHandler (Handles GET /users/{username})
func (ctl *UserController) profileHandler(request *restful.Request, response *restful.Response) {
	profile, err := ctl.userService.GetProfile(request.Request.Context(), request.PathParameter("username"))
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapProfile(profile), restful.MIME_JSON)
}

// updateMeHandler (Handles PUT /users/me)
func (ctl *UserController) updateMeHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}

	input := new(services.UpdateProfileInput)
	if !readEntity(request, response, input) {
		return
	}

	user, err := ctl.userService.UpdateProfile(request.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}
	_ = response.WriteHeaderAndJson(http.StatusOK, mapUser(user), restful.MIME_JSON)
}

// listUsersHandler (Handles GET /users)
func (ctl *UserController) listUsersHandler(request *restful.Request, response *restful.Response) {
	userID, ok := requestingUserID(request, response)
	if !ok {
		return
	}

	page, err := strconv.Atoi(request.QueryParameter("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(request.QueryParameter("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	users, total, err := ctl.userService.ListUsers(request.Request.Context(), userID, page, pageSize)
	if err != nil {
		handleServiceError(request, response, err)
		return
	}

	_ = response.WriteHeaderAndJson(http.StatusOK, PaginatedUsersResponse{
		Users:    mapUsers(users),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, restful.MIME_JSON)
}
