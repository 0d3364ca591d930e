package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/mentorx/platform/api/background"
	"github.com/mentorx/platform/api/middleware"
	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/config"
	"github.com/mentorx/platform/core/auth"
	"github.com/mentorx/platform/core/commerce"
	"github.com/mentorx/platform/core/content"
	"github.com/mentorx/platform/core/course"
	"github.com/mentorx/platform/core/enrollment"
	"github.com/mentorx/platform/core/landing"
	"github.com/mentorx/platform/core/module"
	"github.com/mentorx/platform/core/order"
	"github.com/mentorx/platform/core/user"
	"github.com/mentorx/platform/database"
	"github.com/mentorx/platform/email"
	"github.com/mentorx/platform/rate"
	"github.com/sirupsen/logrus"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Session    *scs.SessionManager
	Mailer     *email.Mailer
	Background *background.Background
	Stripe     *stripecl.API
	StripeCfg  config.Stripe
	Blob       content.Blob
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	mentor := auth.Mentor(cfg.Session)

	a.Handle(http.MethodGet, "/health", handleHealth(cfg.DB))

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session, cfg.Mailer, cfg.Background))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodPost, "/users/account", commerce.HandleOnboardAccount(cfg.DB, cfg.Stripe), authen, mentor)
	a.Handle(http.MethodGet, "/users/account", commerce.HandleAccountStatus(cfg.DB, cfg.Stripe), authen, mentor)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(cfg.DB), authen)

	a.Handle(http.MethodGet, "/courses/owned", course.HandleListOwned(cfg.DB), authen, mentor)
	a.Handle(http.MethodGet, "/courses/{course_id}/modules", module.HandleListByCourse(cfg.DB))
	a.Handle(http.MethodPut, "/courses/{course_id}/modules/order", module.HandleReorder(cfg.DB), authen, mentor)
	a.Handle(http.MethodGet, "/courses/{course_id}/landing", landing.HandleShow(cfg.DB))
	a.Handle(http.MethodPut, "/courses/{course_id}/landing", landing.HandleUpsert(cfg.DB), authen, mentor)
	a.Handle(http.MethodPut, "/courses/{id}/publication", course.HandleSetPublication(cfg.DB), authen, mentor)
	a.Handle(http.MethodPost, "/courses/{id}/stripe-sync", commerce.HandleSyncCourse(cfg.DB, cfg.Stripe), authen, mentor)
	a.Handle(http.MethodPost, "/courses/{id}/enroll", enrollment.HandleEnroll(cfg.DB, cfg.Background, cfg.Mailer), authen)
	a.Handle(http.MethodPost, "/courses/{id}/checkout", order.HandleCheckout(cfg.DB, cfg.Stripe, cfg.StripeCfg), authen)
	a.Handle(http.MethodGet, "/courses/{id}", course.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/courses", course.HandleList(cfg.DB))
	a.Handle(http.MethodPost, "/courses", commerce.HandleCreateCourse(cfg.DB, cfg.Stripe, cfg.Log), authen, mentor)
	a.Handle(http.MethodPut, "/courses/{id}", commerce.HandleUpdateCourse(cfg.DB, cfg.Stripe, cfg.Log), authen, mentor)

	a.Handle(http.MethodPost, "/modules", module.HandleCreate(cfg.DB), authen, mentor)
	a.Handle(http.MethodPut, "/modules/{module_id}/contents/order", content.HandleReorder(cfg.DB), authen, mentor)
	a.Handle(http.MethodGet, "/modules/{module_id}/contents", content.HandleListByModule(cfg.DB))
	a.Handle(http.MethodPut, "/modules/{id}", module.HandleUpdate(cfg.DB), authen, mentor)
	a.Handle(http.MethodDelete, "/modules/{id}", module.HandleDelete(cfg.DB), authen, mentor)

	a.Handle(http.MethodPost, "/contents/pdf", content.HandleCreatePDF(cfg.DB, cfg.Blob), authen, mentor)
	a.Handle(http.MethodPost, "/contents", content.HandleCreate(cfg.DB), authen, mentor)
	a.Handle(http.MethodPut, "/contents/{id}", content.HandleUpdate(cfg.DB), authen, mentor)
	a.Handle(http.MethodDelete, "/contents/{id}", content.HandleDelete(cfg.DB, cfg.Blob, cfg.Log), authen, mentor)

	a.Handle(http.MethodGet, "/enrollments", enrollment.HandleList(cfg.DB), authen)

	a.Handle(http.MethodPost, "/checkout/capture", order.HandleCapture(cfg.DB, cfg.StripeCfg, cfg.Background, cfg.Mailer))

	return a.Router
}

// handleHealth answers the readiness probe: 200 while the database is
// reachable, an error (and so a 500) otherwise.
func handleHealth(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := database.StatusCheck(ctx, db); err != nil {
			return fmt.Errorf("database status check: %w", err)
		}

		status := struct {
			Status string `json:"status"`
		}{Status: "ok"}

		return web.Respond(ctx, w, status, http.StatusOK)
	}
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {
	handler = web.WrapMiddleware(mw, handler)
	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {
			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
