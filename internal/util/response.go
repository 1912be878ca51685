package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK        = 0
	CodeNotFound  = 40401
	CodeServerErr = 50001
)

// Success 统一成功返回（JSON 接口，如健康检查）
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回（JSON 接口）
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// ErrorPage 渲染 HTML 错误页
func ErrorPage(c *gin.Context, httpStatus int, msg string) {
	c.HTML(httpStatus, "error.html", gin.H{
		"title":   "Error",
		"message": msg,
	})
}
