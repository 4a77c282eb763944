package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageForm struct {
	Title string `validate:"required,max=10"`
	Slug  string `validate:"slug"`
	Days  int    `validate:"gte=7"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, v.RegisterValidation("slug", isSlug))
	return v
}

func TestSlugRule(t *testing.T) {
	v := newValidator(t)

	for _, s := range []string{"", "about", "a-1", "2026-news"} {
		assert.NoError(t, v.Struct(pageForm{Title: "x", Slug: s, Days: 7}), s)
	}
	for _, s := range []string{"About", "-a", "a_b", "a/b", "关于"} {
		err := v.Struct(pageForm{Title: "x", Slug: s, Days: 7})
		require.Error(t, err, s)
		assert.Equal(t, "标识只能包含小写字母、数字和连字符", FormatError(err))
	}
}

func TestFormatError(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(pageForm{Days: 7})
	assert.Equal(t, "标题不能为空", FormatError(err))

	err = v.Struct(pageForm{Title: "x", Days: 3})
	assert.Equal(t, "保留天数必须大于等于7", FormatError(err))

	assert.Equal(t, "请求参数格式错误", FormatError(assert.AnError))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello World"))
	assert.True(t, IsSlug(Slugify("关于我们")))
}
