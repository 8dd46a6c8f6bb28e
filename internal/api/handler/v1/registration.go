package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type RegistrationService interface {
	Register(ctx context.Context, actor domain.Actor, exhibitionID uint) (domain.Registration, error)
	CheckIn(ctx context.Context, actor domain.Actor, token string) (domain.Registration, error)
	ToggleCheckIn(ctx context.Context, actor domain.Actor, id uint) (domain.Registration, error)
	Cancel(ctx context.Context, actor domain.Actor, id uint) error
	GetRegistration(ctx context.Context, actor domain.Actor, id uint) (domain.Registration, error)
	Pass(ctx context.Context, actor domain.Actor, id uint) ([]byte, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Registration, error)
	ListByExhibition(ctx context.Context, actor domain.Actor, exhibitionID uint) ([]domain.Registration, error)
}

type RegistrationHandler struct {
	svc RegistrationService
}

func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register for an exhibition
// @Description  Visitors only. One visitor slot is taken immediately and a QR token is issued.
// @Tags         registrations
// @Produce      json
// @Param        exhibitionID  path      int  true  "Exhibition ID"
// @Success      201           {object}  response.RegistrationCreated
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID}/registrations [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
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

	registration, err := h.svc.Register(ctx.Request.Context(), actor, exhibitionID)
	if err != nil {
		renderServiceErr(ctx, "HandleRegister -> h.svc.Register", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.RegistrationCreated{
		RegistrationID: registration.ID,
		QRToken:        registration.Token,
	})
}

// HandleScan godoc
// @Summary      Check a visitor in
// @Description  Admin only. A pass can be scanned successfully once.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.ScanRequest  true  "Scanned token"
// @Success      200    {object}  response.ScanResult
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      429    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /scan [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleScan(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ScanRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, err := h.svc.CheckIn(ctx.Request.Context(), actor, input.QRToken)
	if err != nil {
		renderServiceErr(ctx, "HandleScan -> h.svc.CheckIn", err)
		return
	}

	ctx.JSON(http.StatusOK, response.ScanResult{
		RegistrationID: registration.ID,
		VisitorID:      registration.VisitorID,
		ExhibitionID:   registration.ExhibitionID,
	})
}

// HandleToggleCheckIn godoc
// @Summary      Flip the check-in flag
// @Description  Admin only correction. Works in both directions regardless of scans.
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {object}  response.CheckInState
// @Failure      400             {object}  response.Err
// @Failure      401             {object}  response.Err
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      500             {object}  response.Err
// @Router       /registrations/{registrationID}/toggle-check-in [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleToggleCheckIn(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrationID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registration, err := h.svc.ToggleCheckIn(ctx.Request.Context(), actor, registrationID)
	if err != nil {
		renderServiceErr(ctx, "HandleToggleCheckIn -> h.svc.ToggleCheckIn", err)
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInState{
		RegistrationID: registration.ID,
		IsCheckedIn:    registration.IsCheckedIn,
	})
}

// HandleGetRegistration godoc
// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {object}  domain.Registration
// @Failure      400             {object}  response.Err
// @Failure      401             {object}  response.Err
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      500             {object}  response.Err
// @Router       /registrations/{registrationID} [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrationID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registration, err := h.svc.GetRegistration(ctx.Request.Context(), actor, registrationID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetRegistration -> h.svc.GetRegistration", err)
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleGetPass godoc
// @Summary      Download the QR pass
// @Tags         registrations
// @Produce      png
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {file}    binary
// @Failure      400             {object}  response.Err
// @Failure      401             {object}  response.Err
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      500             {object}  response.Err
// @Router       /registrations/{registrationID}/pass.png [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleGetPass(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrationID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	png, err := h.svc.Pass(ctx.Request.Context(), actor, registrationID)
	if err != nil {
		renderServiceErr(ctx, "HandleGetPass -> h.svc.Pass", err)
		return
	}

	ctx.Header("Cache-Control", "private, no-store")
	ctx.Data(http.StatusOK, "image/png", png)
}

// HandleCancelRegistration godoc
// @Summary      Cancel a registration
// @Description  The visitor who registered can cancel before being checked in. The slot is released.
// @Tags         registrations
// @Param        registrationID  path  int  true  "Registration ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID} [delete]
// @Security BearerAuth
func (h *RegistrationHandler) HandleCancelRegistration(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrationID, respErr := parseIDParam(ctx, "registrationID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Cancel(ctx.Request.Context(), actor, registrationID); err != nil {
		renderServiceErr(ctx, "HandleCancelRegistration -> h.svc.Cancel", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMyRegistrations godoc
// @Summary      List the caller's registrations
// @Tags         registrations
// @Produce      json
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/mine [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListMyRegistrations(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrations, err := h.svc.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		renderServiceErr(ctx, "HandleListMyRegistrations -> h.svc.ListMine", err)
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleListExhibitionRegistrations godoc
// @Summary      List the registrations of an exhibition
// @Tags         registrations
// @Produce      json
// @Param        exhibitionID  path      int  true  "Exhibition ID"
// @Success      200           {array}   domain.Registration
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID}/registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListExhibitionRegistrations(ctx *gin.Context) {
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

	registrations, err := h.svc.ListByExhibition(ctx.Request.Context(), actor, exhibitionID)
	if err != nil {
		renderServiceErr(ctx, "HandleListExhibitionRegistrations -> h.svc.ListByExhibition", err)
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}
