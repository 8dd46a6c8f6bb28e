package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type ApplicationService interface {
	Submit(ctx context.Context, actor domain.Actor, exhibitionID uint, attachmentRef string) (domain.Application, error)
	Approve(ctx context.Context, actor domain.Actor, id uint, boothNumber, badgeRef string) (domain.Application, error)
	Reject(ctx context.Context, actor domain.Actor, id uint) (domain.Application, error)
	GetApplication(ctx context.Context, actor domain.Actor, id uint) (domain.Application, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Application, error)
	ListByExhibition(ctx context.Context, actor domain.Actor, exhibitionID uint, status domain.ApplicationStatus) ([]domain.Application, error)
}

type ApplicationHandler struct {
	svc ApplicationService
}

func NewApplicationHandler(svc ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		svc: svc,
	}
}

// HandleApply godoc
// @Summary      Apply for a booth
// @Description  Exhibitors with a profile apply once per exhibition. No booth is reserved until approval.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        exhibitionID  path      int                   true  "Exhibition ID"
// @Param        input         body      request.ApplyRequest  false "Application"
// @Success      201           {object}  response.ApplicationCreated
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID}/applications [post]
// @Security BearerAuth
func (h *ApplicationHandler) HandleApply(ctx *gin.Context) {
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

	var input request.ApplyRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	application, err := h.svc.Submit(ctx.Request.Context(), actor, exhibitionID, input.AttachmentRef)
	if err != nil {
		renderServiceErr(ctx, "HandleApply -> h.svc.Submit", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.ApplicationCreated{
		ApplicationID: application.ID,
		Status:        string(application.Status),
	})
}

// HandleApprove godoc
// @Summary      Approve an application
// @Description  Admin only. Takes one booth from the exhibition and notifies the exhibitor.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        applicationID  path      int                     true  "Application ID"
// @Param        input          body      request.ApproveRequest  true  "Booth assignment"
// @Success      200            {object}  domain.Application
// @Failure      400            {object}  response.Err
// @Failure      401            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      409            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /applications/{applicationID}/approve [post]
// @Security BearerAuth
func (h *ApplicationHandler) HandleApprove(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicationID, respErr := parseIDParam(ctx, "applicationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ApproveRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	application, err := h.svc.Approve(ctx.Request.Context(), actor, applicationID, input.BoothNumber, input.BadgeRef)
	if err != nil {
		renderServiceErr(ctx, "HandleApprove -> h.svc.Approve", err)
		return
	}

	ctx.JSON(http.StatusOK, application)
}

// HandleReject godoc
// @Summary      Reject an application
// @Tags         applications
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200            {object}  domain.Application
// @Failure      400            {object}  response.Err
// @Failure      401            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      409            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /applications/{applicationID}/reject [post]
// @Security BearerAuth
func (h *ApplicationHandler) HandleReject(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicationID, respErr := parseIDParam(ctx, "applicationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	application, err := h.svc.Reject(ctx.Request.Context(), actor, applicationID)
	if err != nil {
		renderServiceErr(ctx, "HandleReject -> h.svc.Reject", err)
		return
	}

	ctx.JSON(http.StatusOK, application)
}

// HandleGetApplication godoc
// @Summary      Get an application
// @Description  Visible to admins and to the exhibitor who applied.
// @Tags         applications
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200            {object}  domain.Application
// @Failure      400            {object}  response.Err
// @Failure      401            {object}  response.Err
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /applications/{applicationID} [get]
// @Security BearerAuth
func (h *ApplicationHandler) HandleGetApplication(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicationID, respErr := parseIDParam(ctx, "applicationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	application, err := h.svc.GetApplication(ctx.Request.Context(), actor, applicationID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetApplication -> h.svc.GetApplication", err)
		return
	}

	ctx.JSON(http.StatusOK, application)
}

// HandleListMyApplications godoc
// @Summary      List the caller's applications
// @Tags         applications
// @Produce      json
// @Success      200  {array}   domain.Application
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/mine [get]
// @Security BearerAuth
func (h *ApplicationHandler) HandleListMyApplications(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applications, err := h.svc.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		renderServiceErr(ctx, "HandleListMyApplications -> h.svc.ListMine", err)
		return
	}

	ctx.JSON(http.StatusOK, applications)
}

// HandleListExhibitionApplications godoc
// @Summary      List the applications of an exhibition
// @Tags         applications
// @Produce      json
// @Param        exhibitionID  path      int     true   "Exhibition ID"
// @Param        status        query     string  false  "PENDING, APPROVED or REJECTED"
// @Success      200           {array}   domain.Application
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID}/applications [get]
// @Security BearerAuth
func (h *ApplicationHandler) HandleListExhibitionApplications(ctx *gin.Context) {
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

	status := domain.ApplicationStatus(ctx.Query("status"))

	applications, err := h.svc.ListByExhibition(ctx.Request.Context(), actor, exhibitionID, status)
	if err != nil {
		renderServiceErr(ctx, "HandleListExhibitionApplications -> h.svc.ListByExhibition", err)
		return
	}

	ctx.JSON(http.StatusOK, applications)
}
