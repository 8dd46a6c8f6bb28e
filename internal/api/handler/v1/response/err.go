package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stable error codes returned in the Code field.
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotEligibleRole       = "NOT_ELIGIBLE_ROLE"
	CodeCapacityExhausted     = "CAPACITY_EXHAUSTED"
	CodeDuplicateApplication  = "DUPLICATE_APPLICATION"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeAlreadyCheckedIn      = "ALREADY_CHECKED_IN"
	CodeNotFound              = "NOT_FOUND"
	CodeProfileRequired       = "PROFILE_REQUIRED"
	CodeProfileExists         = "PROFILE_EXISTS"
	CodeExhibitionInactive    = "EXHIBITION_INACTIVE"
	CodeBoothTaken            = "BOOTH_TAKEN"
	CodeEmailTaken            = "EMAIL_TAKEN"
	CodeBadRequest            = "BAD_REQUEST"
	CodeTooManyRequests       = "TOO_MANY_REQUESTS"
	CodeInternal              = "INTERNAL"
)

type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	Code       string `json:"code"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorText
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func newErr(status int, code string, err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		Code:           code,
	}
	if err != nil {
		e.ErrorText = err.Error()
	}
	return e
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, CodeBadRequest, err)
}

func ErrUnauthenticated(err error) *Err {
	return newErr(http.StatusUnauthorized, CodeUnauthenticated, err)
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, CodeForbidden, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, CodeNotFound, fmt.Errorf("%v with %v=%v not found", resource, field, value))
}

// ErrMissing is a 404 for a lookup that already carries its own message.
func ErrMissing(code string, err error) *Err {
	return newErr(http.StatusNotFound, code, err)
}

// ErrConflict is a 409 with a domain specific code.
func ErrConflict(code string, err error) *Err {
	return newErr(http.StatusConflict, code, err)
}

// ErrForbiddenCode is a 403 with a domain specific code.
func ErrForbiddenCode(code string, err error) *Err {
	return newErr(http.StatusForbidden, code, err)
}

func ErrTooManyRequests() *Err {
	return newErr(http.StatusTooManyRequests, CodeTooManyRequests, fmt.Errorf("rate limit exceeded"))
}

// ErrInternalServerError logs err and hides it from the client.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		Code:           CodeInternal,
		ErrorText:      "something went wrong",
	}
}
