package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type PropertyService interface {
	Create(ctx context.Context, actor domain.Actor, property domain.Property) (domain.Property, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Property, error)
	ListAll(ctx context.Context) ([]domain.Property, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
}

type PropertyHandler struct {
	svc PropertyService
}

func NewPropertyHandler(svc PropertyService) *PropertyHandler {
	return &PropertyHandler{
		svc: svc,
	}
}

// HandleCreateProperty godoc
// @Summary      List a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreatePropertyRequest  true  "Property"
// @Success      201    {object}  domain.Property
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /properties [post]
// @Security BearerAuth
func (h *PropertyHandler) HandleCreateProperty(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreatePropertyRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	property, err := h.svc.Create(ctx.Request.Context(), actor, input.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "HandleCreateProperty -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, property)
}

// HandleListProperties godoc
// @Summary      List all properties
// @Tags         properties
// @Produce      json
// @Success      200  {array}   domain.Property
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /properties [get]
// @Security BearerAuth
func (h *PropertyHandler) HandleListProperties(ctx *gin.Context) {
	properties, err := h.svc.ListAll(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "HandleListProperties -> h.svc.ListAll", err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}

// HandleListMyProperties godoc
// @Summary      List the caller's properties
// @Tags         properties
// @Produce      json
// @Success      200  {array}   domain.Property
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /properties/mine [get]
// @Security BearerAuth
func (h *PropertyHandler) HandleListMyProperties(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	properties, err := h.svc.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		renderServiceErr(ctx, "HandleListMyProperties -> h.svc.ListMine", err)
		return
	}

	ctx.JSON(http.StatusOK, properties)
}

// HandleDeleteProperty godoc
// @Summary      Delete a property
// @Description  Only the exhibitor who listed it can delete it.
// @Tags         properties
// @Param        propertyID  path  int  true  "Property ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /properties/{propertyID} [delete]
// @Security BearerAuth
func (h *PropertyHandler) HandleDeleteProperty(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	propertyID, respErr := parseIDParam(ctx, "propertyID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, propertyID); err != nil {
		renderServiceErr(ctx, "HandleDeleteProperty -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
