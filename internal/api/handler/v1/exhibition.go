package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type ExhibitionService interface {
	Create(ctx context.Context, actor domain.Actor, exhibition domain.Exhibition) (domain.Exhibition, error)
	GetExhibition(ctx context.Context, id uint) (domain.Exhibition, error)
	ListActive(ctx context.Context) ([]domain.Exhibition, error)
	UpdateDetails(ctx context.Context, actor domain.Actor, id uint, details domain.ExhibitionDetails) (domain.Exhibition, error)
	Resize(ctx context.Context, actor domain.Actor, id uint, r domain.Resource, newCapacity int) (domain.Exhibition, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
}

type ExhibitionHandler struct {
	svc ExhibitionService
}

func NewExhibitionHandler(svc ExhibitionService) *ExhibitionHandler {
	return &ExhibitionHandler{
		svc: svc,
	}
}

// HandleCreateExhibition godoc
// @Summary      Publish an exhibition
// @Description  Admin only. All booths and visitor slots start available.
// @Tags         exhibitions
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateExhibitionRequest  true  "Exhibition"
// @Success      201    {object}  domain.Exhibition
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /exhibitions [post]
// @Security BearerAuth
func (h *ExhibitionHandler) HandleCreateExhibition(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateExhibitionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	exhibition, err := h.svc.Create(ctx.Request.Context(), actor, input.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "HandleCreateExhibition -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, exhibition)
}

// HandleListExhibitions godoc
// @Summary      List active exhibitions
// @Tags         exhibitions
// @Produce      json
// @Success      200  {array}   domain.Exhibition
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /exhibitions [get]
// @Security BearerAuth
func (h *ExhibitionHandler) HandleListExhibitions(ctx *gin.Context) {
	exhibitions, err := h.svc.ListActive(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "HandleListExhibitions -> h.svc.ListActive", err)
		return
	}

	ctx.JSON(http.StatusOK, exhibitions)
}

// HandleGetExhibition godoc
// @Summary      Get an exhibition
// @Tags         exhibitions
// @Produce      json
// @Param        exhibitionID  path      int  true  "Exhibition ID"
// @Success      200           {object}  domain.Exhibition
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID} [get]
// @Security BearerAuth
func (h *ExhibitionHandler) HandleGetExhibition(ctx *gin.Context) {
	exhibitionID, respErr := parseIDParam(ctx, "exhibitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	exhibition, err := h.svc.GetExhibition(ctx.Request.Context(), exhibitionID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetExhibition -> h.svc.GetExhibition", err)
		return
	}

	ctx.JSON(http.StatusOK, exhibition)
}

// HandleUpdateExhibition godoc
// @Summary      Edit exhibition details
// @Description  Admin only. Capacities are changed through the capacity endpoint.
// @Tags         exhibitions
// @Accept       json
// @Produce      json
// @Param        exhibitionID  path      int                              true  "Exhibition ID"
// @Param        input         body      request.UpdateExhibitionRequest  true  "Fields to change"
// @Success      200           {object}  domain.Exhibition
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID} [patch]
// @Security BearerAuth
func (h *ExhibitionHandler) HandleUpdateExhibition(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	exhibitionID, respErr := parseIDParam(ctx, "exhibitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.UpdateExhibitionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	exhibition, err := h.svc.UpdateDetails(ctx.Request.Context(), actor, exhibitionID, input.ToDetails())
	if err != nil {
		renderServiceErr(ctx, "HandleUpdateExhibition -> h.svc.UpdateDetails", err)
		return
	}

	ctx.JSON(http.StatusOK, exhibition)
}

// HandleResizeCapacity godoc
// @Summary      Resize booth or visitor capacity
// @Description  Admin only. The available count moves by the same delta and is clamped to [0, capacity].
// @Tags         exhibitions
// @Accept       json
// @Produce      json
// @Param        exhibitionID  path      int                            true  "Exhibition ID"
// @Param        input         body      request.ResizeCapacityRequest  true  "New capacity"
// @Success      200           {object}  domain.Exhibition
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID}/capacity [put]
// @Security BearerAuth
func (h *ExhibitionHandler) HandleResizeCapacity(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	exhibitionID, respErr := parseIDParam(ctx, "exhibitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ResizeCapacityRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	exhibition, err := h.svc.Resize(ctx.Request.Context(), actor, exhibitionID, domain.Resource(input.Resource), *input.Capacity)
	if err != nil {
		renderServiceErr(ctx, "HandleResizeCapacity -> h.svc.Resize", err)
		return
	}

	ctx.JSON(http.StatusOK, exhibition)
}

// HandleDeleteExhibition godoc
// @Summary      Delete an exhibition
// @Description  Admin only. Its applications and registrations are deleted with it.
// @Tags         exhibitions
// @Param        exhibitionID  path  int  true  "Exhibition ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /exhibitions/{exhibitionID} [delete]
// @Security BearerAuth
func (h *ExhibitionHandler) HandleDeleteExhibition(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	exhibitionID, respErr := parseIDParam(ctx, "exhibitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, exhibitionID); err != nil {
		renderServiceErr(ctx, "HandleDeleteExhibition -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
