package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/api/middleware"
	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/service"
)

func getActorFromContext(ctx *gin.Context) (domain.Actor, *response.Err) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok || !actor.Authenticated() {
		return domain.Actor{}, response.ErrUnauthenticated(service.ErrUnauthenticated)
	}

	return actor, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("%v must be a positive integer", name))
	}

	return uint(id), nil
}

type errMapping struct {
	target error
	render func(error) *response.Err
}

func conflict(code string) func(error) *response.Err {
	return func(err error) *response.Err { return response.ErrConflict(code, err) }
}

func forbidden(code string) func(error) *response.Err {
	return func(err error) *response.Err { return response.ErrForbiddenCode(code, err) }
}

func missing(code string) func(error) *response.Err {
	return func(err error) *response.Err { return response.ErrMissing(code, err) }
}

// Sentinel errors of the service layer and the stable code each one renders.
var errMappings = []errMapping{
	{service.ErrUnauthenticated, response.ErrUnauthenticated},
	{service.ErrForbidden, response.ErrPermissionDenied},
	{service.ErrNotEligibleRole, forbidden(response.CodeNotEligibleRole)},
	{service.ErrProfileRequired, forbidden(response.CodeProfileRequired)},

	{service.ErrCapacityExhausted, conflict(response.CodeCapacityExhausted)},
	{service.ErrDuplicateApplication, conflict(response.CodeDuplicateApplication)},
	{service.ErrDuplicateRegistration, conflict(response.CodeDuplicateRegistration)},
	{service.ErrInvalidTransition, conflict(response.CodeInvalidTransition)},
	{service.ErrAlreadyCheckedIn, conflict(response.CodeAlreadyCheckedIn)},
	{service.ErrExhibitionInactive, conflict(response.CodeExhibitionInactive)},
	{service.ErrBoothTaken, conflict(response.CodeBoothTaken)},
	{service.ErrProfileExists, conflict(response.CodeProfileExists)},
	{service.ErrUserEmailExists, conflict(response.CodeEmailTaken)},

	{service.ErrInvalidToken, missing(response.CodeInvalidToken)},
	{service.ErrExhibitionNotFound, missing(response.CodeNotFound)},
	{service.ErrApplicationNotFound, missing(response.CodeNotFound)},
	{service.ErrRegistrationNotFound, missing(response.CodeNotFound)},
	{service.ErrUserNotFound, missing(response.CodeNotFound)},
	{service.ErrProfileNotFound, missing(response.CodeNotFound)},
	{service.ErrPropertyNotFound, missing(response.CodeNotFound)},

	{service.ErrInvalidDates, response.ErrBadRequest},
	{service.ErrInvalidCapacity, response.ErrBadRequest},
	{service.ErrInvalidPrice, response.ErrBadRequest},
	{service.ErrInvalidStatus, response.ErrBadRequest},
	{service.ErrBoothNumberRequired, response.ErrBadRequest},
}

// renderServiceErr renders a known service error with its stable code and
// anything else as an internal error annotated with where it came from.
func renderServiceErr(ctx *gin.Context, where string, err error) {
	for _, m := range errMappings {
		if errors.Is(err, m.target) {
			response.RenderErr(ctx, m.render(m.target))
			return
		}
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", where, err)))
}
