package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/auth"
	"github.com/KSx23/archer/internal/domains/notification/bus"
	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
	userBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/metrics"
	"github.com/KSx23/archer/internal/mid"
	"github.com/KSx23/archer/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type Conf struct {
	Router          *gin.Engine
	NotificationBus *bus.Bus
	UserBus         *userBus.Bus
	Auth            *auth.Auth
	Metrics         *metrics.Metrics
	Tracer          trace.Tracer
	Logger          *logger.Logger
}

// RegisterRoutes takes the router and registers the notification endpoints
// on it.
func RegisterRoutes(cfg Conf) {
	n := handler{
		notificationBus: cfg.NotificationBus,
		metrics:         cfg.Metrics,
		tracer:          cfg.Tracer,
	}

	notifications := cfg.Router.Group("/v1/notifications")

	manager := mid.Authorized(cfg.Auth, map[string]struct{}{
		roleBus.RoleAdmin:   {},
		roleBus.RoleManager: {},
	})
	authenticated := mid.Authenticate(cfg.Logger, cfg.Auth, cfg.UserBus)

	notifications.POST("", authenticated, manager, n.Dispatch)
	notifications.GET("", authenticated, n.Query)
	notifications.PUT("/:id", authenticated, manager, n.UpdateNotification)
	notifications.DELETE("/:id", authenticated, manager, n.DeleteNotification)
}
