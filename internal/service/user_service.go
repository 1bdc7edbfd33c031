package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/pkg/errcode"
)

// Profile 用户主页统计
type Profile struct {
	ID              string
	Username        string
	FullName        string
	ProfileImageURL string
	Bio             *string
	TotalPosts      int64
	TotalFollowers  int64
	TotalFollowings int64
	Followed        bool
}

type UserService interface {
	// GetByID returns nil for an empty id or an unknown user.
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetProfile(ctx context.Context, username, actorID string) (*Profile, error)
}

type userService struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	follows repository.RelationRepository
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository, follows repository.RelationRepository) UserService {
	return &userService{users: users, posts: posts, follows: follows}
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("Failed to fetch user", err)
	}
	return u, nil
}

func (s *userService) GetProfile(ctx context.Context, username, actorID string) (*Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errcode.New(errcode.NotFound, "User not found")
	}
	if err != nil {
		return nil, storeErr("Failed to fetch user profile", err)
	}

	p := &Profile{ID: u.ID, Username: u.Username, FullName: u.FullName, Bio: u.Bio}
	if u.ProfileImageURL != nil {
		p.ProfileImageURL = *u.ProfileImageURL
	}
	if p.TotalPosts, err = s.posts.CountByAuthor(ctx, u.ID); err != nil {
		return nil, storeErr("Failed to fetch user profile", err)
	}
	if p.TotalFollowers, err = s.follows.CountByTarget(ctx, u.ID); err != nil {
		return nil, storeErr("Failed to fetch user profile", err)
	}
	if p.TotalFollowings, err = s.follows.CountByActor(ctx, u.ID); err != nil {
		return nil, storeErr("Failed to fetch user profile", err)
	}
	if actorID != "" {
		if p.Followed, err = s.follows.Exists(ctx, actorID, u.ID); err != nil {
			return nil, storeErr("Failed to fetch user profile", err)
		}
	}
	return p, nil
}
