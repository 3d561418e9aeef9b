package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/auth"
	"github.com/KSx23/archer/internal/domains/role/bus"
	userBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/mid"
	"github.com/KSx23/archer/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type Conf struct {
	Router  *gin.Engine
	RoleBus *bus.Bus
	UserBus *userBus.Bus
	Auth    *auth.Auth
	Tracer  trace.Tracer
	Logger  *logger.Logger
}

// RegisterRoutes takes the router and registers the role endpoints on it.
func RegisterRoutes(cfg Conf) {
	r := handler{
		roleBus: cfg.RoleBus,
		tracer:  cfg.Tracer,
	}

	roles := cfg.Router.Group("/v1/roles")

	admin := mid.Authorized(cfg.Auth, map[string]struct{}{bus.RoleAdmin: {}})
	authenticated := mid.Authenticate(cfg.Logger, cfg.Auth, cfg.UserBus)

	roles.POST("", authenticated, admin, r.CreateRole)
	roles.GET("", authenticated, r.Query)
	roles.DELETE("/:id", authenticated, admin, r.DeleteRole)
}
