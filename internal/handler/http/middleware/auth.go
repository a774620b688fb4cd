package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
)

// ActorRequired verifies the JWT and stamps the actor identity into the
// request context. The token is issued by the external auth service; only
// the opaque subject and email claims are read, never validated further.
func ActorRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			actorID, ok := claims["sub"].(string)
			if !ok || actorID == "" {
				response.HandleError(w, identity.ErrNoActor)
				return
			}
			email, _ := claims["email"].(string)

			ctx := identity.WithActor(r.Context(), identity.Actor{
				ID:    actorID,
				Email: email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
