package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type tokenAuth struct {
	tokens map[string]uuid.UUID
}

func (a tokenAuth) Signup(context.Context, services.SignupInput) (*types.User, error) {
	return nil, nil
}

func (a tokenAuth) Signin(context.Context, string, string) (*services.Session, error) {
	return nil, nil
}

func (a tokenAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	id, ok := a.tokens[token]
	if !ok {
		return ctx, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: id}), nil
}

func (a tokenAuth) GetAccessTTL() time.Duration { return time.Hour }

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	am := NewAuthMiddleware(logger.NewNop(), tokenAuth{tokens: map[string]uuid.UUID{"good": userID}})

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer", "Bearer good", "", http.StatusOK},
		{"query token", "", "?token=good", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, tc.status, rec.Code, tc.name)
		if tc.status == http.StatusOK {
			require.Equal(t, userID.String(), rec.Body.String(), tc.name)
		} else {
			require.Contains(t, rec.Body.String(), `"code":"unauthorized"`, tc.name)
		}
	}
}
