package gql

import (
	"context"

	"github.com/d60-Lab/moments/internal/auth"
	"github.com/d60-Lab/moments/internal/service"
)

// Services 根 resolver 依赖的业务服务
type Services struct {
	Users     service.UserService
	Feed      service.FeedService
	Posts     service.PostService
	Comments  service.CommentService
	Relations service.RelationshipService
	Auth      service.AuthService
}

// Resolver is the root for both Query and Mutation.
type Resolver struct {
	svc     Services
	session SessionOptions
}

func NewResolver(svc Services, session SessionOptions) *Resolver {
	return &Resolver{svc: svc, session: session}
}

type paginationPayload struct {
	PageSize *int32
	Cursor   *string
}

func (r *Resolver) GetCurrentUser(ctx context.Context) (*userResolver, error) {
	u, err := r.svc.Users.GetByID(ctx, auth.ViewerID(ctx))
	if err != nil {
		return nil, r.fail(ctx, "getCurrentUser", err)
	}
	return newUser(u), nil
}

func (r *Resolver) GetFeedPosts(ctx context.Context, args struct{ Payload paginationPayload }) (*feedResolver, error) {
	var (
		size   int
		cursor string
	)
	if args.Payload.PageSize != nil {
		size = int(*args.Payload.PageSize)
	}
	if args.Payload.Cursor != nil {
		cursor = *args.Payload.Cursor
	}
	page, err := r.svc.Feed.ListFeed(ctx, auth.ViewerID(ctx), size, cursor)
	if err != nil {
		return nil, r.fail(ctx, "getFeedPosts", err)
	}
	if page == nil {
		return nil, nil
	}
	return &feedResolver{page: page, r: r}, nil
}

func (r *Resolver) GetPostComments(ctx context.Context, args struct{ PostID string }) ([]*commentResolver, error) {
	comments, err := r.svc.Feed.ListComments(ctx, args.PostID)
	if err != nil {
		return nil, r.fail(ctx, "getPostComments", err)
	}
	return r.comments(comments), nil
}

func (r *Resolver) GetUserPosts(ctx context.Context, args struct{ Username string }) ([]*postResolver, error) {
	views, err := r.svc.Feed.ListPostsByUsername(ctx, args.Username, auth.ViewerID(ctx))
	if err != nil {
		return nil, r.fail(ctx, "getUserPosts", err)
	}
	return r.posts(views), nil
}

func (r *Resolver) GetPostByID(ctx context.Context, args struct{ PostID string }) (*postDetailResolver, error) {
	detail, err := r.svc.Feed.GetPostByID(ctx, args.PostID, auth.ViewerID(ctx))
	if err != nil {
		return nil, r.fail(ctx, "getPostById", err)
	}
	if detail == nil {
		return nil, nil
	}
	return &postDetailResolver{
		postResolver: &postResolver{view: &detail.PostView, r: r},
		detail:       detail,
	}, nil
}

func (r *Resolver) GetUserProfile(ctx context.Context, args struct{ Username string }) (*profileResolver, error) {
	p, err := r.svc.Users.GetProfile(ctx, args.Username, auth.ViewerID(ctx))
	if err != nil {
		return nil, r.fail(ctx, "getUserProfile", err)
	}
	return &profileResolver{p: p}, nil
}
