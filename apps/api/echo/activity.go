package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core/activity"
	"github.com/darasalabs/darasa/core/user"
)

type activityApi struct {
	svc      activity.Service
	users    user.Service
	validate *validator.Validate
}

func registerActivityAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc activity.Service,
	users user.Service,
	validate *validator.Validate,
) {
	api := activityApi{
		svc:      svc,
		users:    users,
		validate: validate,
	}

	ag := g.Group("/activities", jwt)

	ag.GET("/teaching", api.queryTeaching, teacherMiddleware())
	ag.GET("/feed", api.queryFeed, studentMiddleware())
	ag.GET("/joined", api.queryJoined, studentMiddleware())
	ag.POST("", api.create, teacherMiddleware())

	// detail endpoints
	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/state", api.updateState)
	dg.POST("/join", api.join, studentMiddleware())

	// group-scoped listing
	g.GET("/groups/:id/activities", api.queryByGroup, jwt)
}

// Handlers

func (api *activityApi) create(ctx echo.Context) error {
	var data activity.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	act, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating activity")
	}
	return ctx.JSON(http.StatusCreated, act)
}

func (api *activityApi) retrieve(ctx echo.Context) error {
	act, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding activity by ID")
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *activityApi) queryByGroup(ctx echo.Context) error {
	activities, err := api.svc.QueryByGroup(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying group activities")
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

// queryTeaching returns the activities created by the authenticated teacher.
func (api *activityApi) queryTeaching(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	activities, err := api.svc.QueryByTeacher(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying taught activities")
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

// queryFeed returns the activities of all groups the authenticated student belongs to.
func (api *activityApi) queryFeed(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	activities, err := api.svc.QueryFeed(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying activity feed")
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

// queryJoined returns the activities the authenticated student attends.
func (api *activityApi) queryJoined(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	activities, err := api.svc.QueryJoined(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying joined activities")
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

func (api *activityApi) updateState(ctx echo.Context) error {
	var data activity.UpdateActivityState
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateActivityState")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	act, err := api.svc.UpdateState(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.State)
	if err != nil {
		return errors.Wrap(err, "updating activity state")
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *activityApi) join(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	act, err := api.svc.Join(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "joining activity")
	}
	return ctx.JSON(http.StatusOK, act)
}
