package staticgen

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("目标不存在")
	ErrNotPublished = errors.New("目标未发布")
	ErrTemplate     = errors.New("模板错误")
	ErrIO           = errors.New("文件写入失败")
	ErrInvalidScope = errors.New("无效的构建范围")
	ErrReservedPath = errors.New("输出路径与固定页面冲突")

	ErrThemeNotFound    = fmt.Errorf("%w: 模板套装不存在", ErrTemplate)
	ErrTemplateNotFound = fmt.Errorf("%w: 模板文件不存在", ErrTemplate)
)

// Kind 错误类别
type Kind string

const (
	KindNone         Kind = ""
	KindNotFound     Kind = "not_found"
	KindNotPublished Kind = "not_published"
	KindTemplate     Kind = "template"
	KindIO           Kind = "io"
	KindInvalid      Kind = "invalid"
	KindInternal     Kind = "internal"
)

// KindOf 判断错误类别
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotPublished):
		return KindNotPublished
	case errors.Is(err, ErrTemplate):
		return KindTemplate
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrInvalidScope), errors.Is(err, ErrReservedPath):
		return KindInvalid
	}
	return KindInternal
}

// entityError 带中文提示的实体错误
type entityError struct {
	msg  string
	kind error
}

func (e *entityError) Error() string { return e.msg }
func (e *entityError) Unwrap() error { return e.kind }

func notFound(scope Scope) error {
	return &entityError{msg: scope.Label() + "不存在", kind: ErrNotFound}
}

func notPublished(scope Scope) error {
	return &entityError{msg: scope.Label() + "未发布", kind: ErrNotPublished}
}

// BuildError 单次构建失败
type BuildError struct {
	Scope    Scope
	TargetID uint
	Err      error
}

func (e *BuildError) Error() string {
	if e.Scope.Targeted() {
		return fmt.Sprintf("生成%s(%d)失败: %v", e.Scope.Label(), e.TargetID, e.Err)
	}
	return fmt.Sprintf("生成%s失败: %v", e.Scope.Label(), e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
