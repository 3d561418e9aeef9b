package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/auth"
	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/KSx23/archer/internal/domains/timeoff/bus"
	userBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/mid"
	"github.com/KSx23/archer/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type Conf struct {
	Router     *gin.Engine
	TimeoffBus *bus.Bus
	UserBus    *userBus.Bus
	Auth       *auth.Auth
	Tracer     trace.Tracer
	Logger     *logger.Logger
}

// RegisterRoutes takes the router and registers the time off endpoints on it.
func RegisterRoutes(cfg Conf) {
	t := handler{
		timeoffBus: cfg.TimeoffBus,
		tracer:     cfg.Tracer,
	}

	timeoff := cfg.Router.Group("/v1/timeoff")

	manager := mid.Authorized(cfg.Auth, map[string]struct{}{
		roleBus.RoleAdmin:   {},
		roleBus.RoleManager: {},
	})
	authenticated := mid.Authenticate(cfg.Logger, cfg.Auth, cfg.UserBus)

	timeoff.POST("", authenticated, t.Submit)
	timeoff.GET("", authenticated, t.Query)
	timeoff.PUT("/:id/decide", authenticated, manager, t.Decide)
	timeoff.DELETE("/:id", authenticated, t.Withdraw)
}
