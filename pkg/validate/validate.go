package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

var registerOnce sync.Once

// Register 向 gin 的校验引擎注册自定义规则
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("slug", isSlug)
		}
	})
}

// isSlug 空值交给 required 判断
func isSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || slugPattern.MatchString(s)
}

// IsSlug 是否为合法的单页标识
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify 由标题生成单页标识，中文按拼音转写
func Slugify(title string) string {
	return slug.Make(title)
}

// 错误信息映射
var msgMap = map[string]string{
	"required": "不能为空",
	"min":      "长度不能小于%v",
	"max":      "长度不能大于%v",
	"oneof":    "必须是[%v]中的一个",
	"gt":       "必须大于%v",
	"gte":      "必须大于等于%v",
	"lt":       "必须小于%v",
	"lte":      "必须小于等于%v",
	"slug":     "只能包含小写字母、数字和连字符",
	"dive":     "格式错误",
}

// 字段名称映射
var fieldMap = map[string]string{
	"Title":     "标题",
	"Content":   "内容",
	"Name":      "名称",
	"Slug":      "标识",
	"IDs":       "ID列表",
	"Days":      "保留天数",
	"Scope":     "构建范围",
	"Theme":     "模板套装",
	"Page":      "页码",
	"PageSize":  "每页数量",
	"BuildType": "构建类型",
}

// FormatError 将校验错误转换为中文提示，只返回第一个错误
func FormatError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "请求参数格式错误"
	}
	first := errs[0]

	fieldName := fieldMap[first.Field()]
	if fieldName == "" {
		fieldName = first.Field()
	}
	msg := msgMap[first.Tag()]
	if msg == "" {
		msg = "验证失败"
	}
	if first.Param() != "" && strings.Contains(msg, "%v") {
		return fieldName + fmt.Sprintf(msg, first.Param())
	}
	return fieldName + msg
}
