package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/access"
	"trojsten-graph/backend/internal/invites"
	"trojsten-graph/backend/internal/people"
	apperrors "trojsten-graph/backend/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer is wired to
type Deps struct {
	Assembler *people.Assembler
	Enums     *people.EnumExporter
	Gate      *access.TokenGate
	Invites   *invites.Generator
	Auth      access.Authenticator
	Health    Pinger
	Logger    *zap.Logger
}

type handlers struct {
	Deps
}

// NewRouter builds the gin engine with every route and middleware attached
func NewRouter(deps Deps) *gin.Engine {
	h := &handlers{Deps: deps}
	log := deps.Logger

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())
	router.Use(access.Authenticate(deps.Auth))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/health", h.health)

	graph := router.Group("/graph")
	{
		login := graph.Group("", access.RequireLogin())
		login.GET("/", h.graphView)
		login.GET("/graph-data/", h.graphData)
		login.GET("/about/", h.aboutView)

		gated := graph.Group("", deps.Gate.RequireStaffOrToken(log))
		gated.GET("/v2/", h.graphViewV2)
		gated.GET("/v2/enums/", h.enums)
		gated.GET("/api/people/", h.people)
		gated.GET("/api/relationships/", h.relationships)
	}

	admin := router.Group("/admin", access.RequireStaff())
	{
		admin.GET("/invites/", h.listInvites)
		admin.POST("/invites/", h.generateInvites)
	}

	return router
}

func (h *handlers) health(c *gin.Context) {
	if err := h.Health.Ping(c.Request.Context()); err != nil {
		h.Logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps an error onto a response. Internal errors are logged and hidden.
func (h *handlers) fail(c *gin.Context, err error, message string) {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeAccess):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Logger.Error(message, zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
