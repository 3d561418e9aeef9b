package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/auth"
	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/mid"
	"github.com/KSx23/archer/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type Conf struct {
	Router      *gin.Engine
	UserBus     *bus.Bus
	Auth        *auth.Auth
	Kid         string
	Issuer      string
	TokenMaxAge time.Duration
	Tracer      trace.Tracer
	Logger      *logger.Logger
}

// RegisterRoutes takes the router and registers the user endpoints on it.
func RegisterRoutes(cfg Conf) {
	usr := handler{
		userBus:     cfg.UserBus,
		a:           cfg.Auth,
		kid:         cfg.Kid,
		issuer:      cfg.Issuer,
		tokenMaxAge: cfg.TokenMaxAge,
		tracer:      cfg.Tracer,
	}

	users := cfg.Router.Group("/v1/users")

	admin := mid.Authorized(cfg.Auth, map[string]struct{}{roleBus.RoleAdmin: {}})
	authenticated := mid.Authenticate(cfg.Logger, cfg.Auth, cfg.UserBus)

	users.POST("", usr.Register)
	users.POST("/login", usr.Login)
	users.GET("/:id", authenticated, usr.QueryUserByID)
	users.PUT("/:id", authenticated, usr.UpdateUser)
	users.PUT("/roles/:id", authenticated, admin, usr.UpdateRole)
	users.GET("", authenticated, admin, usr.Query)
}
