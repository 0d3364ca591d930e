package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/background"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
	"github.com/mentorx/platform/core/user"
	"github.com/mentorx/platform/validate"
	"golang.org/x/crypto/bcrypt"
)

// Mailer is the slice of the email layer that auth needs.
type Mailer interface {
	SendWelcome(to string, name string, role string) error
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func HandleSignup(db *sqlx.DB, session *scs.SessionManager, mail Mailer, bg *background.Background) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nu user.UserNew
		if err := web.Decode(w, r, &nu); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(nu); err != nil {
			return weberr.BadRequest(err)
		}

		if _, err := user.FetchByEmail(ctx, db, nu.Email); err == nil {
			err := errors.New("email already registered")
			return weberr.NewError(err, err.Error(), http.StatusConflict)
		} else if !errors.Is(err, user.ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		u := user.User{
			ID:           validate.GenerateID(),
			Email:        nu.Email,
			Name:         nu.Name,
			Role:         nu.Role,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
			Version:      1,
		}

		if err := user.Create(ctx, db, u); err != nil {
			return err
		}

		bg.Add(func() error {
			return mail.SendWelcome(u.Email, u.Name, u.Role)
		})

		if err := session.RenewToken(ctx); err != nil {
			return err
		}
		session.Put(ctx, sessionUserID, u.ID)
		session.Put(ctx, sessionRole, u.Role)

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

func HandleLogin(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(creds); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := user.FetchByEmail(ctx, db, creds.Email)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return weberr.NotAuthorized(errors.New("invalid credentials"))
			}
			return err
		}

		if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(creds.Password)); err != nil {
			return weberr.NotAuthorized(errors.New("invalid credentials"))
		}

		if err := session.RenewToken(ctx); err != nil {
			return err
		}
		session.Put(ctx, sessionUserID, u.ID)
		session.Put(ctx, sessionRole, u.Role)

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
