package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type UserService interface {
	Enroll(ctx context.Context, actor domain.Actor) (domain.User, error)
	GetUser(ctx context.Context, actor domain.Actor, id uint) (domain.User, error)
	CreateExhibitorProfile(ctx context.Context, actor domain.Actor, profile domain.ExhibitorProfile) (domain.ExhibitorProfile, error)
	HasExhibitorProfile(ctx context.Context, actor domain.Actor) (bool, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleEnroll godoc
// @Summary      Enroll the caller
// @Description  Creates or refreshes the directory entry of the caller from the token claims.
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [post]
// @Security BearerAuth
func (h *UserHandler) HandleEnroll(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.Enroll(ctx.Request.Context(), actor)
	if err != nil {
		renderServiceErr(ctx, "HandleEnroll -> h.svc.Enroll", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetMe godoc
// @Summary      Get the caller
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), actor, actor.UserID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetMe -> h.svc.GetUser", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetUser godoc
// @Summary      Get a user
// @Description  Admins can read any user, everybody else only themselves.
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), actor, userID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetUser -> h.svc.GetUser", err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCreateProfile godoc
// @Summary      Create the exhibitor profile
// @Description  An exhibitor needs a profile before applying for a booth. It can be created once.
// @Tags         exhibitor
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateProfileRequest  true  "Profile"
// @Success      201    {object}  domain.ExhibitorProfile
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /exhibitor/profile [post]
// @Security BearerAuth
func (h *UserHandler) HandleCreateProfile(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateProfileRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	profile, err := h.svc.CreateExhibitorProfile(ctx.Request.Context(), actor, input.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "HandleCreateProfile -> h.svc.CreateExhibitorProfile", err)
		return
	}

	ctx.JSON(http.StatusCreated, profile)
}

// HandleGetProfileStatus godoc
// @Summary      Whether the caller has an exhibitor profile
// @Tags         exhibitor
// @Produce      json
// @Success      200  {object}  response.ProfileStatus
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /exhibitor/profile/status [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetProfileStatus(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	exists, err := h.svc.HasExhibitorProfile(ctx.Request.Context(), actor)
	if err != nil {
		renderServiceErr(ctx, "HandleGetProfileStatus -> h.svc.HasExhibitorProfile", err)
		return
	}

	ctx.JSON(http.StatusOK, response.ProfileStatus{Exists: exists})
}
