package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	types "github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/pkg/dbctx"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
	User      *types.User `json:"user"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*types.User, error)
	Signin(ctx context.Context, email, password string) (*Session, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)

func (as *authService) Signup(ctx context.Context, in SignupInput) (*types.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	vErr := &apperr.ValidationError{}
	for _, f := range []struct{ name, val string }{
		{"email", in.Email},
		{"password", in.Password},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
	} {
		if f.val == "" {
			vErr.Missing = append(vErr.Missing, f.name)
		}
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		vErr.Invalid = append(vErr.Invalid, apperr.FieldError{Field: "email", Value: in.Email, Reason: "must be an email address"})
	}
	if !vErr.Empty() {
		return nil, vErr
	}

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := as.userRepo.GetByEmail(dbc, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email is already registered", apperr.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		ID:        uuid.New(),
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
		if apperr.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: email is already registered", apperr.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Signin(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		vErr := &apperr.ValidationError{}
		if email == "" {
			vErr.Missing = append(vErr.Missing, "email")
		}
		if password == "" {
			vErr.Missing = append(vErr.Missing, "password")
		}
		return nil, vErr
	}

	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, err := as.generateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Session{Token: token, ExpiresIn: int(as.accessTTL.Seconds()), User: user}, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken attaches the token subject as the request user. An
// empty token leaves ctx anonymous.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, fmt.Errorf("%w: token expired", apperr.ErrUnauthorized)
		}
		return ctx, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid token subject", apperr.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
