package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/coursegen-backend/internal/domain"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type stubAuth struct {
	signupErr error
	signinErr error
}

func (s stubAuth) Signup(_ context.Context, in services.SignupInput) (*types.User, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &types.User{ID: uuid.New(), Email: in.Email, Password: "hash"}, nil
}

func (s stubAuth) Signin(_ context.Context, email, _ string) (*services.Session, error) {
	if s.signinErr != nil {
		return nil, s.signinErr
	}
	return &services.Session{Token: "tok", ExpiresIn: 86400, User: &types.User{Email: email}}, nil
}

func (s stubAuth) SetContextFromToken(ctx context.Context, _ string) (context.Context, error) {
	return ctx, nil
}

func (s stubAuth) GetAccessTTL() time.Duration { return 24 * time.Hour }

func authRouter(a stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(logger.NewNop(), a)
	r := gin.New()
	r.POST("/signup", h.Signup)
	r.POST("/signin", h.Signin)
	return r
}

func TestSignup(t *testing.T) {
	rec := do(authRouter(stubAuth{}), http.MethodPost, "/signup", map[string]string{"email": "a@b.co", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, rec.Body.String(), "hash")

	rec = do(authRouter(stubAuth{signupErr: fmt.Errorf("%w: email taken", apperr.ErrConflict)}), http.MethodPost, "/signup", map[string]string{})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignin(t *testing.T) {
	rec := do(authRouter(stubAuth{}), http.MethodPost, "/signin", map[string]string{"email": "a@b.co", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "tok", body["token"])
	require.Equal(t, float64(86400), body["expiresIn"])

	rec = do(authRouter(stubAuth{signinErr: apperr.ErrUnauthorized}), http.MethodPost, "/signin", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
