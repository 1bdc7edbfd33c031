package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/moments/internal/auth"
	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/pkg/errcode"
	"github.com/d60-Lab/moments/pkg/logger"
)

// LoginResult 登录成功后签发的会话 token 与对应用户
type LoginResult struct {
	Token string
	User  *model.User
}

type AuthService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error)
}

type authService struct {
	users    repository.UserRepository
	verifier auth.IdentityVerifier
	tokens   *auth.TokenManager
}

func NewAuthService(users repository.UserRepository, verifier auth.IdentityVerifier, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, verifier: verifier, tokens: tokens}
}

func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, errcode.New(errcode.Validation, "Token is required")
	}
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, errcode.Wrap(errcode.Upstream, "Failed to authenticate with Google.", err)
	}
	if !id.EmailVerified {
		return nil, errcode.Wrap(errcode.Unauthenticated, "Email not verified by Google.", auth.ErrEmailNotVerified)
	}

	user, err := s.findOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Sign(user.ID, user.Username)
	if err != nil {
		return nil, errcode.Wrap(errcode.Internal, "Failed to sign in", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *authService) findOrCreate(ctx context.Context, id *auth.Identity) (*model.User, error) {
	email := strings.ToLower(id.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr("Failed to sign in", err)
	}

	username, err := s.pickUsername(ctx, email)
	if err != nil {
		return nil, err
	}
	user = &model.User{
		ID:         uuid.NewString(),
		Username:   username,
		FullName:   id.FullName(),
		Email:      email,
		IsVerified: true,
	}
	if id.Picture != "" {
		pic := id.Picture
		user.ProfileImageURL = &pic
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 同一邮箱并发首次登录，另一请求已创建
		if existing, gerr := s.users.GetByEmail(ctx, email); gerr == nil {
			return existing, nil
		}
		return nil, storeErr("Failed to sign in", err)
	}
	logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// pickUsername 取邮箱 @ 前部分，被占用时追加短随机后缀
func (s *authService) pickUsername(ctx context.Context, email string) (string, error) {
	base := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		base = email[:i]
	}
	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := s.users.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", storeErr("Failed to sign in", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "_" + uuid.NewString()[:6]
	}
	return "", errcode.New(errcode.Internal, "Failed to sign in")
}
