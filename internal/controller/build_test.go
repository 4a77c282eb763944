package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"github.com/nsxzhou1114/cms-api/pkg/validate"
	"github.com/stretchr/testify/assert"
)

func TestBuildTypeQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validate.Register()

	r := gin.New()
	r.POST("/build/index", func(c *gin.Context) {
		buildType, ok := buildTypeOf(c)
		if !ok {
			return
		}
		response.Success(c, "ok", buildType)
	})

	cases := []struct {
		query string
		want  string
	}{
		{"", model.BuildTypeManual},
		{"?build_type=manual", model.BuildTypeManual},
		{"?build_type=auto", model.BuildTypeAuto},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/build/index"+tc.query, nil))
		assert.Equal(t, http.StatusOK, rec.Code, tc.query)
		assert.Equal(t, tc.want, decode(t, rec).Data, tc.query)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/build/index?build_type=cron", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, response.CodeInvalidParams, resp.Code)
	assert.Equal(t, "构建类型必须是[manual auto]中的一个", resp.Message)
}
