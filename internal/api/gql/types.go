package gql

import (
	"context"
	"time"

	"github.com/graph-gophers/graphql-go"

	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/service"
)

type userResolver struct {
	u *model.User
}

func newUser(u *model.User) *userResolver {
	if u == nil {
		return nil
	}
	return &userResolver{u: u}
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.u.ID) }
func (u *userResolver) Username() string { return u.u.Username }
func (u *userResolver) FullName() string { return u.u.FullName }
func (u *userResolver) Email() string { return u.u.Email }
func (u *userResolver) ProfileImageURL() *string { return u.u.ProfileImageURL }
func (u *userResolver) Bio() *string { return u.u.Bio }
func (u *userResolver) IsVerified() bool { return u.u.IsVerified }

// author 关联未预加载时按 id 回查
func (r *Resolver) author(ctx context.Context, preloaded *model.User, id string) (*userResolver, error) {
	if preloaded != nil && preloaded.ID != "" {
		return newUser(preloaded), nil
	}
	u, err := r.svc.Users.GetByID(ctx, id)
	if err != nil {
		return nil, r.fail(ctx, "author", err)
	}
	return newUser(u), nil
}

type postResolver struct {
	view *service.PostView
	r    *Resolver
}

func (r *Resolver) posts(views []*service.PostView) []*postResolver {
	res := make([]*postResolver, len(views))
	for i, v := range views {
		res[i] = &postResolver{view: v, r: r}
	}
	return res
}

func (p *postResolver) ID() string { return p.view.ID }
func (p *postResolver) Content() *string { return p.view.Content }
func (p *postResolver) ImgURL() string { return p.view.ImgURL }
func (p *postResolver) CreatedAt() string { return p.view.CreatedAt.UTC().Format(time.RFC3339) }
func (p *postResolver) TotalLikeCount() int32 { return int32(p.view.TotalLikeCount) }
func (p *postResolver) UserHasLiked() bool { return p.view.UserHasLiked }
func (p *postResolver) Bookmarked() bool { return p.view.Bookmarked }

func (p *postResolver) Author(ctx context.Context) (*userResolver, error) {
	return p.r.author(ctx, &p.view.Author, p.view.AuthorID)
}

type postDetailResolver struct {
	*postResolver
	detail *service.PostDetail
}

func (d *postDetailResolver) TotalCommentCount() int32 { return int32(d.detail.TotalCommentCount) }

func (d *postDetailResolver) Comments() []*commentResolver {
	return d.r.comments(d.detail.Comments)
}

type commentResolver struct {
	c *model.Comment
	r *Resolver
}

func (r *Resolver) comments(list []*model.Comment) []*commentResolver {
	res := make([]*commentResolver, len(list))
	for i, c := range list {
		res[i] = &commentResolver{c: c, r: r}
	}
	return res
}

func (c *commentResolver) ID() string { return c.c.ID }
func (c *commentResolver) Content() string { return c.c.Content }
func (c *commentResolver) PostID() string { return c.c.PostID }
func (c *commentResolver) CreatedAt() string { return c.c.CreatedAt.UTC().Format(time.RFC3339) }

func (c *commentResolver) Author(ctx context.Context) (*userResolver, error) {
	return c.r.author(ctx, &c.c.User, c.c.UserID)
}

type feedResolver struct {
	page *service.FeedPage
	r    *Resolver
}

func (f *feedResolver) Posts() []*postResolver { return f.r.posts(f.page.Items) }
func (f *feedResolver) NextCursor() *string { return f.page.NextCursor }
func (f *feedResolver) HasMore() bool { return f.page.HasMore }

type profileResolver struct {
	p *service.Profile
}

func (p *profileResolver) ID() graphql.ID { return graphql.ID(p.p.ID) }
func (p *profileResolver) Username() string { return p.p.Username }
func (p *profileResolver) FullName() string { return p.p.FullName }
func (p *profileResolver) ProfileImageURL() *string {
	url := p.p.ProfileImageURL
	return &url
}
func (p *profileResolver) Bio() *string { return p.p.Bio }
func (p *profileResolver) TotalPosts() int32 { return int32(p.p.TotalPosts) }
func (p *profileResolver) TotalFollowers() int32 { return int32(p.p.TotalFollowers) }
func (p *profileResolver) TotalFollowings() int32 { return int32(p.p.TotalFollowings) }
func (p *profileResolver) Followed() bool { return p.p.Followed }
