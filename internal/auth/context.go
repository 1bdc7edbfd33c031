package auth

import "context"

type viewerKey struct{}

// WithViewer 把已认证用户放入请求上下文
func WithViewer(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, viewerKey{}, c)
}

// ViewerFrom returns the authenticated user, if any.
func ViewerFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(viewerKey{}).(*Claims)
	return c, ok && c != nil
}

// ViewerID 未登录时返回空串
func ViewerID(ctx context.Context) string {
	if c, ok := ViewerFrom(ctx); ok {
		return c.ID
	}
	return ""
}
