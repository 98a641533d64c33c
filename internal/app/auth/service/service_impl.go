package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/krishna-gitAcc/hospital-management-project/internal/adapters/transport/http/dto"
	customErrors "github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/errors"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/jwt"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/model"
	"github.com/krishna-gitAcc/hospital-management-project/internal/domain/auth/repo"
	"github.com/krishna-gitAcc/hospital-management-project/internal/infra/config"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type authService struct {
	userRepo    repo.UserRepo
	sessionRepo repo.SessionRepo
	tokenRepo   repo.TokenRepo
	jwtUtil     jwt.JWTUtil
	cfg         *config.Config
	v           *validator.Validate
	dummyHash   string
}

type Service interface {
	Register(context.Context, dto.RegisterDTO, model.Role) (model.AuthResult, error)
	LoginToken(context.Context, dto.LoginDTO) (model.AuthResult, error)
	LoginBasic(context.Context, dto.LoginDTO) (model.AuthResult, error)
	LoginSession(context.Context, dto.LoginDTO) (model.AuthResult, error)
	Refresh(context.Context, dto.RefreshDTO) (model.AuthResult, error)
}

func New(
	ur repo.UserRepo,
	sr repo.SessionRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	// burned against unknown emails so both credential-check failures cost
	// one hash comparison
	dummyHash, _ := argon2id.CreateHash(uuid.NewString()+cfg.PasswordPepper, argonParams)

	return &authService{
		userRepo: ur, sessionRepo: sr, tokenRepo: tr,
		jwtUtil: jm, cfg: cfg, v: v, dummyHash: dummyHash,
	}
}

func (a *authService) Register(ctx context.Context, dto dto.RegisterDTO, role model.Role) (model.AuthResult, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.AuthResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	exists, err := a.userRepo.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		return model.AuthResult{}, err
	}
	if exists {
		return model.AuthResult{}, customErrors.ErrAlreadyExists
	}

	passwordHash, err := argon2id.CreateHash(dto.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		return model.AuthResult{}, err
	}

	// registration does not authenticate: identity fields only, no tokens
	return model.AuthResult{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (a *authService) LoginToken(ctx context.Context, dto dto.LoginDTO) (model.AuthResult, error) {
	user, err := a.credentialCheck(ctx, dto)
	if err != nil {
		return model.AuthResult{}, err
	}
	return a.issuePair(user)
}

func (a *authService) LoginBasic(ctx context.Context, dto dto.LoginDTO) (model.AuthResult, error) {
	user, err := a.credentialCheck(ctx, dto)
	if err != nil {
		return model.AuthResult{}, err
	}

	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(user.Email, user.Role)
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}

	return model.AuthResult{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		AccessToken: at,
		AccessTTL:   time.Until(atExp),
	}, nil
}

func (a *authService) LoginSession(ctx context.Context, dto dto.LoginDTO) (model.AuthResult, error) {
	user, err := a.credentialCheck(ctx, dto)
	if err != nil {
		return model.AuthResult{}, err
	}

	sessionID, err := a.sessionRepo.CreateSession(ctx, user.Email)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sessionID,
	}, nil
}

func (a *authService) Refresh(ctx context.Context, dto dto.RefreshDTO) (model.AuthResult, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.AuthResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.VerifyRefreshToken(dto.RefreshToken)
	if err != nil {
		return model.AuthResult{}, err
	}

	if !a.jwtUtil.Validate(dto.RefreshToken, claims.Subject) {
		return model.AuthResult{}, customErrors.ErrInvalidToken
	}

	if a.cfg.RefreshRotationRevoke {
		revoked, err := a.tokenRepo.IsRevoked(ctx, claims.ID)
		if err != nil {
			return model.AuthResult{}, customErrors.WrapStoreUnavailable(err, "Refresh")
		}
		if revoked {
			return model.AuthResult{}, customErrors.ErrInvalidToken
		}
		if err := a.tokenRepo.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return model.AuthResult{}, customErrors.WrapStoreUnavailable(err, "Refresh")
		}
	}

	// the identity may have vanished since the token was issued; role is
	// re-read from the store, never copied from the old token
	user, err := a.userRepo.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return model.AuthResult{}, err
	}

	return a.issuePair(user)
}

func (a *authService) credentialCheck(ctx context.Context, dto dto.LoginDTO) (model.User, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, dto.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// keep the cost and the outcome identical to a password mismatch
		_, _ = argon2id.ComparePasswordAndHash(dto.Password+a.cfg.PasswordPepper, a.dummyHash)
		return model.User{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.User{}, err
	}

	ok, err := argon2id.ComparePasswordAndHash(dto.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "credentialCheck")
	}
	if !ok || !user.Active {
		return model.User{}, customErrors.ErrInvalidCredentials
	}

	return user, nil
}

func (a *authService) issuePair(user model.User) (model.AuthResult, error) {
	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(user.Email, user.Role)
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, rtExp, _, err := a.jwtUtil.GenerateRefreshToken(user.Email)
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	now := time.Now()
	return model.AuthResult{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
	}, nil
}
