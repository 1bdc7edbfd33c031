package gql

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/moments/pkg/errcode"
	"github.com/d60-Lab/moments/pkg/logger"
	"github.com/d60-Lab/moments/pkg/reporting"
)

// fail 记录原始错误，只把分类和面向用户的信息返回给客户端
func (r *Resolver) fail(ctx context.Context, op string, err error) error {
	var appErr *errcode.Error
	if !errors.As(err, &appErr) {
		appErr = errcode.Wrap(errcode.Internal, "Something went wrong", err)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("code", appErr.Kind.String()),
		zap.Error(err),
	}
	switch appErr.Kind {
	case errcode.Upstream, errcode.Store, errcode.Internal:
		logger.Error("graphql operation failed", fields...)
		reporting.Capture(ctx, err)
	default:
		logger.Debug("graphql operation rejected", fields...)
	}
	return appErr.Public()
}
