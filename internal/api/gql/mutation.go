package gql

import (
	"context"

	"github.com/d60-Lab/moments/internal/auth"
	"github.com/d60-Lab/moments/internal/service"
)

type createPostData struct {
	Content *string
	ImgURL  string
}

type commentPostData struct {
	PostID  string
	Content string
}

func (r *Resolver) LoginWithGoogle(ctx context.Context, args struct{ Token string }) (string, error) {
	res, err := r.svc.Auth.LoginWithGoogle(ctx, args.Token)
	if err != nil {
		return "", r.fail(ctx, "loginWithGoogle", err)
	}
	r.setSessionCookie(ctx, res.Token)
	return res.Token, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ Payload createPostData }) (*postResolver, error) {
	post, err := r.svc.Posts.Create(ctx, auth.ViewerID(ctx), service.CreatePostInput{
		Content: args.Payload.Content,
		ImgURL:  args.Payload.ImgURL,
	})
	if err != nil {
		return nil, r.fail(ctx, "createPost", err)
	}
	return &postResolver{view: &service.PostView{Post: post}, r: r}, nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ PostID string }) (bool, error) {
	ok, err := r.svc.Posts.Delete(ctx, auth.ViewerID(ctx), args.PostID)
	if err != nil {
		return false, r.fail(ctx, "deletePost", err)
	}
	return ok, nil
}

func (r *Resolver) LikePost(ctx context.Context, args struct{ PostID string }) (bool, error) {
	on, err := r.svc.Posts.ToggleLike(ctx, auth.ViewerID(ctx), args.PostID)
	if err != nil {
		return false, r.fail(ctx, "likePost", err)
	}
	return on, nil
}

func (r *Resolver) BookMarkPost(ctx context.Context, args struct{ PostID string }) (bool, error) {
	on, err := r.svc.Posts.ToggleBookmark(ctx, auth.ViewerID(ctx), args.PostID)
	if err != nil {
		return false, r.fail(ctx, "bookMarkPost", err)
	}
	return on, nil
}

func (r *Resolver) CommentPost(ctx context.Context, args struct{ Payload commentPostData }) (*commentResolver, error) {
	c, err := r.svc.Comments.Add(ctx, auth.ViewerID(ctx), service.CommentInput{
		PostID:  args.Payload.PostID,
		Content: args.Payload.Content,
	})
	if err != nil {
		return nil, r.fail(ctx, "commentPost", err)
	}
	return &commentResolver{c: c, r: r}, nil
}

func (r *Resolver) DeleteCommentPost(ctx context.Context, args struct{ CommentID string }) (bool, error) {
	ok, err := r.svc.Comments.Delete(ctx, auth.ViewerID(ctx), args.CommentID)
	if err != nil {
		return false, r.fail(ctx, "deleteCommentPost", err)
	}
	return ok, nil
}

func (r *Resolver) FollowUser(ctx context.Context, args struct{ UserID string }) (bool, error) {
	on, err := r.svc.Relations.ToggleFollow(ctx, auth.ViewerID(ctx), args.UserID)
	if err != nil {
		return false, r.fail(ctx, "followUser", err)
	}
	return on, nil
}
