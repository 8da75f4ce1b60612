package handler

import (
	"net/http"

	"github.com/community-watch/backend/docs"
	"github.com/gin-gonic/gin"
)

// OpenAPIDoc returns the registered OpenAPI document.
func OpenAPIDoc(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
}
