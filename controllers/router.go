package controllers

import (
	"context"
	"net/http"

	"guildhall/auth"
	"guildhall/metrics"
	"guildhall/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// APIRoot prefixes every application route.
const APIRoot = "/api"

// Protector attaches the authentication filters to a route.
type Protector func(*restful.RouteBuilder) *restful.RouteBuilder

// Dependencies are the collaborators NewContainer wires into the routes.
type Dependencies struct {
	Users      services.UserService
	Team       services.TeamService
	Characters services.CharacterService
	Weapons    services.WeaponService
	Games      services.GameService
	Tokens     *auth.TokenManager
	Logger     *zap.Logger
	// Optional.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   func(ctx context.Context) error
}

// NewContainer builds the REST API: application routes under /api plus
// /healthz, /metrics and /apidocs.json.
func NewContainer(deps Dependencies) *restful.Container {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	container := restful.NewContainer()
	container.Filter(AccessLog(logger.Named("http")))
	if deps.Metrics != nil {
		container.Filter(RequestMetrics(deps.Metrics))
	}

	authFilter := auth.AuthFilter(deps.Tokens)
	lastSeen := LastSeen(deps.Users)
	protect := func(rb *restful.RouteBuilder) *restful.RouteBuilder {
		return rb.Filter(authFilter).Filter(lastSeen).
			Returns(http.StatusUnauthorized, "Unauthorized", MessageResponse{})
	}

	ws := new(restful.WebService)
	ws.Path(APIRoot).Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	NewUserController(deps.Users, deps.Tokens).RegisterRoutes(ws, protect)
	NewTeamController(deps.Team).RegisterRoutes(ws, protect)
	NewCharacterController(deps.Characters).RegisterRoutes(ws, protect)
	NewWeaponController(deps.Weapons).RegisterRoutes(ws, protect)
	NewGameController(deps.Games).RegisterRoutes(ws, protect)
	container.Add(ws)

	container.Add(healthService(deps.Health))

	if deps.Gatherer != nil {
		container.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}))
	return container
}

func healthService(check func(ctx context.Context) error) *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/healthz").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(func(request *restful.Request, response *restful.Response) {
		if check != nil {
			if err := check(request.Request.Context()); err != nil {
				writeMessage(response, http.StatusServiceUnavailable, "unhealthy: "+err.Error())
				return
			}
		}
		writeMessage(response, http.StatusOK, "ok")
	}).Doc("Liveness and database check"))
	return ws
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "guildhall",
			Description: "Teams, characters and games for a tabletop community",
			Version:     "1.0.0",
		},
	}
	swo.SecurityDefinitions = spec.SecurityDefinitions{
		"bearer": spec.APIKeyAuth("Authorization", "header"),
	}
}
