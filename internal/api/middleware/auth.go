package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/pkg/jwthelper"
)

// ActorKey is the gin context key holding the domain.Actor of a verified request.
const ActorKey = "actor"

var errMissingBearer = errors.New("missing bearer token")

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

// VerifyJWT accepts the token from the Authorization header, or from the
// access_token query parameter for websocket upgrades.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMissingBearer))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			if errors.Is(err, jwthelper.ErrRoleNotGranted) || errors.Is(err, jwthelper.ErrUnknownRole) {
				response.RenderErr(ctx, response.ErrPermissionDenied(err))
				return
			}
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}

		ctx.Set(ActorKey, actor)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}

	if ctx.IsWebsocket() {
		return ctx.Query("access_token")
	}

	return ""
}

// ActorFromContext returns the actor stored by VerifyJWT.
func ActorFromContext(ctx *gin.Context) (domain.Actor, bool) {
	value, ok := ctx.Get(ActorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok
}
