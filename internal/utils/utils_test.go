package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		page, limit int
		want        PaginationParams
	}{
		{3, 20, PaginationParams{Page: 3, Limit: 20, Offset: 40}},
		{0, 10, PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{1, 0, PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{2, 1000, PaginationParams{Page: 2, Limit: 20, Offset: 20}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPaginationParams(tt.page, tt.limit))
	}
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?page=2&limit=5", nil)

	p := GetPaginationParams(c)
	assert.Equal(t, 5, p.Offset)
	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 12}, p.Response(12))
}

func TestColors(t *testing.T) {
	color, err := GenerateColor()
	assert.NoError(t, err)
	assert.True(t, IsHexColor(color))

	assert.True(t, IsHexColor("#fff"))
	assert.False(t, IsHexColor("fff"))
	assert.False(t, IsHexColor("#12345g"))
}
