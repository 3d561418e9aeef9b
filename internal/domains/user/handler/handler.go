// Package handler provides endpoints to interact with the user domain.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/KSx23/archer/internal/auth"
	"github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/errs"
	"github.com/KSx23/archer/internal/page"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	userBus     *bus.Bus
	a           *auth.Auth
	kid         string
	issuer      string
	tokenMaxAge time.Duration
	tracer      trace.Tracer
}

func (h *handler) Register(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "user.handler.register")
	defer span.End()

	var nu newUser
	if err := c.ShouldBindJSON(&nu); err != nil {
		c.Error(err)
		return
	}

	busUser, err := toBusNewUser(nu)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "toBusNewUser: %s", err))
		return
	}

	usr, err := h.userBus.Create(ctx, busUser)
	switch {
	case errors.Is(err, bus.ErrDuplicatedUsername), errors.Is(err, bus.ErrDuplicatedEmail):
		c.Error(errs.Newf(http.StatusConflict, "create: %s", err))
		return
	case errors.Is(err, bus.ErrUnknownRole):
		c.Error(errs.Newf(http.StatusBadRequest, "create: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "create: %s", err))
		return
	}

	appUser := toAppUser(usr)

	token, err := h.generateToken(usr)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "generateToken: %s", err))
		return
	}

	appUser.Token = token
	c.JSON(http.StatusCreated, appUser)
}

func (h *handler) QueryUserByID(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "user.handler.queryByID")
	defer span.End()

	p := c.Param("id")

	userID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", p))
		return
	}

	usr, err := h.userBus.QueryByID(ctx, userID)
	if errors.Is(err, bus.ErrNotFound) {
		c.Error(errs.Newf(http.StatusNotFound, "queryByID: %s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "queryByID: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppUser(usr))
}

func (h *handler) UpdateUser(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "user.handler.updateUser")
	defer span.End()

	p := c.Param("id")
	targetID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid user id: %s", p))
		return
	}

	val, ok := c.Get("user")
	if !ok {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	usr, ok := val.(bus.User)
	if !ok {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	//only the user itself can edit its profile
	if usr.ID != targetID {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	var uu updateUser
	if err := c.ShouldBindJSON(&uu); err != nil {
		c.Error(err)
		return
	}

	busUpdate, err := toBusUpdateUser(uu)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "toBusUpdateUser: %s", err))
		return
	}

	updated, err := h.userBus.Update(ctx, usr, busUpdate)
	if errors.Is(err, bus.ErrDuplicatedEmail) {
		c.Error(errs.Newf(http.StatusConflict, "%s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "update: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppUser(updated))
}

func (h *handler) UpdateRole(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "user.handler.updateRole")
	defer span.End()

	p := c.Param("id")
	userID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid user id: %s", p))
		return
	}

	var ur updateUserRole
	if err := c.ShouldBindJSON(&ur); err != nil {
		c.Error(err)
		return
	}

	usr, err := h.userBus.QueryByID(ctx, userID)
	if errors.Is(err, bus.ErrNotFound) {
		c.Error(errs.Newf(http.StatusNotFound, "%s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "queryByID: %s", err))
		return
	}

	updated, err := h.userBus.UpdateRole(ctx, usr, ur.RoleID)
	if errors.Is(err, bus.ErrUnknownRole) {
		c.Error(errs.Newf(http.StatusBadRequest, "%s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "updateRole: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppUser(updated))
}

func (h *handler) Query(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "user.handler.query")
	defer span.End()

	page, err := page.Parse(c.Query("page"), c.Query("rows"))
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "parse pagination: %s", err))
		return
	}

	var filters Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.Error(err)
		return
	}

	orderBy, err := bus.ParseOrderBy(c.Query("order_by"))
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "parse order_by query: %s", err))
		return
	}

	busFilter := filters.ToBusQueryFilter()

	busUsers, err := h.userBus.Query(ctx, busFilter, orderBy, page)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "query: %s", err))
		return
	}

	total, err := h.userBus.Count(ctx, busFilter)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "count: %s", err))
		return
	}

	users := make([]user, len(busUsers))
	for i, usr := range busUsers {
		users[i] = toAppUser(usr)
	}

	c.JSON(http.StatusOK, newQueryResult(users, total, page.Number, page.Rows))
}

func (h *handler) Login(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "user.handler.login")
	defer span.End()

	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.Error(err)
		return
	}

	usr, err := h.userBus.Authenticate(ctx, creds.Username, creds.Password)
	if errors.Is(err, bus.ErrAuthenticationFaild) {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "authenticate: %s", err))
		return
	}

	token, err := h.generateToken(usr)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "generateToken: %s", err))
		return
	}

	c.JSON(http.StatusOK, Token{Token: token})
}

func (h *handler) generateToken(usr bus.User) (string, error) {
	claims := auth.Claims{
		Role: usr.RoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.issuer,
			Subject:   strconv.FormatInt(usr.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenMaxAge)),
		},
	}

	return h.a.GenerateToken(h.kid, claims)
}
