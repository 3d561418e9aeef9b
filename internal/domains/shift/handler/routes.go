package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/auth"
	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/KSx23/archer/internal/domains/shift/bus"
	userBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/mid"
	"github.com/KSx23/archer/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type Conf struct {
	Router   *gin.Engine
	ShiftBus *bus.Bus
	UserBus  *userBus.Bus
	Auth     *auth.Auth
	Tracer   trace.Tracer
	Logger   *logger.Logger
}

// RegisterRoutes takes the router and registers the shift endpoints on it.
func RegisterRoutes(cfg Conf) {
	sh := handler{
		shiftBus: cfg.ShiftBus,
		tracer:   cfg.Tracer,
	}

	shifts := cfg.Router.Group("/v1/shifts")

	scheduler := mid.Authorized(cfg.Auth, map[string]struct{}{
		roleBus.RoleAdmin:   {},
		roleBus.RoleManager: {},
	})
	authenticated := mid.Authenticate(cfg.Logger, cfg.Auth, cfg.UserBus)

	shifts.POST("", authenticated, scheduler, sh.CreateShift)
	shifts.GET("", authenticated, sh.Query)
	shifts.GET("/:id", authenticated, sh.QueryShiftByID)
	shifts.DELETE("/:id", authenticated, scheduler, sh.DeleteShift)
	shifts.POST("/:id/claim", authenticated, sh.Claim)
	shifts.POST("/:id/release", authenticated, sh.Release)
}
