package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/claims"
)

const (
	sessionUserID = "user_id"
	sessionRole   = "role"
)

// LoadAndSave adapts the scs middleware to the web.Handler signature.
// It must be the outermost middleware so every later layer sees the
// session-aware context.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			wrapped := session.LoadAndSave(http.HandlerFunc(func(ww http.ResponseWriter, rr *http.Request) {
				err = handler(rr.Context(), ww, rr)
			}))
			wrapped.ServeHTTP(w, r)

			return err
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a live session and stores the
// session identity as claims in the context.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			userID := session.GetString(ctx, sessionUserID)
			if userID == "" {
				return weberr.NotAuthorized(errors.New("no authenticated session"))
			}

			clm := claims.Claims{
				UserID: userID,
				Role:   session.GetString(ctx, sessionRole),
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

// Mentor allows only users with the mentor role past this point.
func Mentor(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			userID := session.GetString(ctx, sessionUserID)
			if userID == "" {
				return weberr.NotAuthorized(errors.New("no authenticated session"))
			}

			role := session.GetString(ctx, sessionRole)
			if role != claims.RoleMentor {
				return weberr.Forbidden(errors.New("mentor role required"))
			}

			clm := claims.Claims{UserID: userID, Role: role}
			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}
