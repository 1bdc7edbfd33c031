package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/moments/pkg/errcode"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误信息里使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// messages 面向用户的校验错误文案，key 为 "字段.规则"
var messages = map[string]string{
	"imgURL.required":  "Image URL is required",
	"content.max":      "Content is too long",
	"content.required": "Comment cannot be empty",
	"postId.required":  "Post id is required",
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return errcode.Wrap(errcode.Validation, msg, err)
		}
		return errcode.Wrap(errcode.Validation, fmt.Sprintf("Invalid %s", fe.Field()), err)
	}
	return errcode.Wrap(errcode.Validation, "Invalid input", err)
}

func storeErr(message string, err error) error {
	return errcode.Wrap(errcode.Store, message, err)
}

// NormalizePage 返回实际生效的页码与每页数量
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, normalizePageSize(pageSize)
}

func normalizePageSize(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
