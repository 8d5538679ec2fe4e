package httpresp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const HeaderTotalCount = "X-Total-Count"

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List devolve a página como array puro e o total do filtro em X-Total-Count.
func List[T any](c *gin.Context, data []T, total int) {
	if data == nil {
		data = []T{}
	}
	c.Header(HeaderTotalCount, strconv.Itoa(total))
	c.JSON(http.StatusOK, data)
}
