package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/mentorx/platform/api/web"
	"github.com/mentorx/platform/api/weberr"
)

func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {

			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = weberr.InternalError(
						fmt.Errorf("PANIC [%v]", rec),
						weberr.WithFields(map[string]interface{}{"trace": string(trace)}),
					)
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
