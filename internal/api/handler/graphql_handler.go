package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/moments/internal/api/gql"
	"github.com/d60-Lab/moments/pkg/metrics"
	"github.com/d60-Lab/moments/pkg/response"
)

type graphqlRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQL 执行一次 GraphQL 请求
// @Summary GraphQL 入口
// @Description 业务错误以 errors[].extensions.code 返回，HTTP 状态仍为 200
// @Tags GraphQL
// @Accept json
// @Produce json
// @Param request body graphqlRequest true "GraphQL 请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /graphql [post]
func (h *Handler) GraphQL(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	// 登录 mutation 需要写 cookie
	ctx := gql.WithResponseWriter(c.Request.Context(), c.Writer)
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	metrics.ObserveGraphQL(req.OperationName, len(resp.Errors) > 0)
	c.JSON(http.StatusOK, resp)
}
