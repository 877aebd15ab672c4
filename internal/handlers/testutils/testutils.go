package testutils

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jazlogic/Share-Musician-sub000/internal/auth"
)

// WithChiURLParams подставляет параметры пути в контекст chi запроса для тестов.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithIdentity кладет Identity в контекст запроса, минуя JWT middleware.
func WithIdentity(req *http.Request, userID int, role string) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID, Role: role}))
}
