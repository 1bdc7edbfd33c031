package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/internal/usercache"
	"github.com/d60-Lab/moments/pkg/errcode"
)

var (
	ErrFollowSelf = errcode.New(errcode.Validation, "You cannot follow yourself")
)

// RelationshipService 关系链服务
type RelationshipService interface {
	ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowing(ctx context.Context, username string, page, pageSize int) ([]usercache.Snapshot, error)
	ListFollowers(ctx context.Context, username string, page, pageSize int) ([]usercache.Snapshot, error)
}

type relationshipService struct {
	follows repository.RelationRepository
	users   repository.UserRepository
	cache   *usercache.Cache
	toggler *Toggler
}

func NewRelationshipService(follows repository.RelationRepository, users repository.UserRepository, cache *usercache.Cache) RelationshipService {
	return &relationshipService{
		follows: follows,
		users:   users,
		cache:   cache,
		toggler: NewToggler("follow", follows),
	}
}

func (s *relationshipService) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" {
		return false, errcode.ErrUnauthenticated
	}
	if followerID == followingID {
		return false, ErrFollowSelf
	}
	ok, err := s.users.Exists(ctx, followingID)
	if err != nil {
		return false, storeErr("Failed to follow user", err)
	}
	if !ok {
		return false, errcode.New(errcode.NotFound, "User not found")
	}
	return s.toggler.Toggle(ctx, followerID, followingID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, username string, page, pageSize int) ([]usercache.Snapshot, error) {
	return s.list(ctx, username, page, pageSize, s.follows.ListTargets)
}

func (s *relationshipService) ListFollowers(ctx context.Context, username string, page, pageSize int) ([]usercache.Snapshot, error) {
	return s.list(ctx, username, page, pageSize, s.follows.ListActors)
}

type listFunc func(ctx context.Context, id string, offset, limit int) ([]string, error)

func (s *relationshipService) list(ctx context.Context, username string, page, pageSize int, fetch listFunc) ([]usercache.Snapshot, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errcode.New(errcode.NotFound, "User not found")
	}
	if err != nil {
		return nil, storeErr("Failed to fetch user", err)
	}

	page, pageSize = NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	ids, err := fetch(ctx, user.ID, offset, pageSize)
	if err != nil {
		return nil, storeErr("Failed to fetch relations", err)
	}
	snaps, err := s.cache.Load(ctx, ids, s.users.ListByIDs)
	if err != nil {
		return nil, storeErr("Failed to fetch users", err)
	}
	return snaps, nil
}
