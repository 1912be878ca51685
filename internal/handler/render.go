package handler

import (
	"net/http"

	"book-catalog/internal/middleware"

	"github.com/gin-gonic/gin"
)

// render 渲染页面，并把会话中的登录状态暴露给模板
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data[middleware.KeyIsAuthenticated] = c.GetBool(middleware.KeyIsAuthenticated)
	data[middleware.KeyUser] = c.GetString(middleware.KeyUser)
	c.HTML(status, name, data)
}

// Home 首页
func Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", gin.H{
		"title": "Book Catalog",
	})
}
