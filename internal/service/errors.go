package service

import (
	"errors"
	"fmt"

	"github.com/nsxzhou1114/cms-api/internal/repository"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"gorm.io/gorm"
)

// 服务层错误类别，控制器据此选择响应码
var (
	ErrRecordNotFound = errors.New("记录不存在")
	ErrConflict       = errors.New("数据冲突")
	ErrInvalidParam   = errors.New("参数错误")
)

// notFound 统一记录不存在的错误
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s不存在", ErrRecordNotFound, what)
	}
	return fmt.Errorf("查询%s失败: %v", what, err)
}

// pageParams 分页参数默认值
func pageParams(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// staticURL 静态页站内地址
func staticURL(publicPath, rel string) string {
	return staticgen.AbsoluteURL(staticgen.SiteConfig{}.BaseURL("", publicPath), rel)
}

// wrapSave 保留服务层错误类别，其余错误加上操作说明
func wrapSave(action string, err error) error {
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidParam) || errors.Is(err, ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%s: %v", action, err)
}
