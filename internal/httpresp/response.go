package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gardenpro/landscape-api/internal/query"
)

type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type ListResponse[T any] struct {
	Success    bool              `json:"success"`
	Count      int               `json:"count"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       []T               `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{}})
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Success: true,
		Count:   len(data),
		Data:    data,
	})
}

func Page[T any](c *gin.Context, data []T, p query.Pagination) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Success:    true,
		Count:      len(data),
		Pagination: &p,
		Data:       data,
	})
}
