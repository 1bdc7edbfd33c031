package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/moments/internal/service"
	"github.com/d60-Lab/moments/pkg/errcode"
	"github.com/d60-Lab/moments/pkg/response"
)

// Handler HTTP 入口：GraphQL、关系链 REST、健康检查
type Handler struct {
	schema     *graphql.Schema
	relService service.RelationshipService
	db         *gorm.DB
	redis      *redis.Client
}

// New redis 可以为 nil
func New(schema *graphql.Schema, relService service.RelationshipService, db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{schema: schema, relService: relService, db: db, redis: rdb}
}

// fail 按错误分类映射 HTTP 状态
func fail(c *gin.Context, err error) {
	var appErr *errcode.Error
	if !errors.As(err, &appErr) {
		response.InternalError(c, err)
		return
	}
	switch appErr.Kind {
	case errcode.NotFound:
		response.NotFound(c, appErr.Message)
	case errcode.Validation:
		response.BadRequest(c, appErr.Message)
	default:
		response.InternalError(c, err)
	}
}
