package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core/group"
	"github.com/darasalabs/darasa/core/user"
)

type groupApi struct {
	svc      group.Service
	users    user.Service
	validate *validator.Validate
}

func registerGroupAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc group.Service,
	users user.Service,
	validate *validator.Validate,
) {
	api := groupApi{
		svc:      svc,
		users:    users,
		validate: validate,
	}

	gg := g.Group("/groups", jwt)

	gg.GET("", api.query)
	gg.GET("/mine", api.queryMine, teacherMiddleware())
	gg.GET("/joined", api.queryJoined, studentMiddleware())
	gg.POST("", api.create, teacherMiddleware())

	// detail endpoints
	dg := gg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/members", api.addMember)
	dg.DELETE("/members/:userID", api.removeMember)
}

// Handlers

func (api *groupApi) create(ctx echo.Context) error {
	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	grp, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

func (api *groupApi) query(ctx echo.Context) error {
	groups, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

// queryMine returns the groups owned by the authenticated teacher.
func (api *groupApi) queryMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	groups, err := api.svc.QueryByOwner(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying owned groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

// queryJoined returns the groups the authenticated student is a member of.
func (api *groupApi) queryJoined(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	groups, err := api.svc.QueryByMember(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying joined groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) retrieve(ctx echo.Context) error {
	grp, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding group by ID")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) update(ctx echo.Context) error {
	var data group.UpdateGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grp, err := api.svc.Update(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grp, err := api.svc.Remove(ctx.Request().Context(), ctxUsr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "removing group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) addMember(ctx echo.Context) error {
	var data group.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	data.GroupID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	mbr, err := api.svc.AddMember(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "adding member")
	}
	return ctx.JSON(http.StatusCreated, mbr)
}

func (api *groupApi) removeMember(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	removed, err := api.svc.RemoveMember(ctx.Request().Context(), ctxUsr, ctx.Param("id"), ctx.Param("userID"))
	if err != nil {
		return errors.Wrap(err, "removing member")
	}
	return ctx.JSON(http.StatusOK, RemoveMemberResponse{Removed: removed})
}

type RemoveMemberResponse struct {
	Removed bool `json:"removed"`
}
