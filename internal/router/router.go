package router

import (
	"fmt"
	"net/http"

	"book-catalog/internal/auth"
	"book-catalog/internal/config"
	"book-catalog/internal/handler"
	"book-catalog/internal/middleware"
	"book-catalog/internal/session"
	"book-catalog/internal/store"
	"book-catalog/internal/util"
	"book-catalog/web"

	"github.com/gin-gonic/gin"
)

// Deps 是路由需要的全部依赖，由 main 显式注入
type Deps struct {
	Store    store.Store
	Auth     *auth.Service
	Sessions *session.Manager
}

// SetupRouter configures the Gin engine, templates and routes.
func SetupRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		util.Success(c, util.Response{"status": "ok"})
	})

	// 页面路由都需要会话
	pages := r.Group("")
	pages.Use(middleware.SessionMiddleware(deps.Sessions))

	pages.GET("/", handler.Home)

	bookHandler := handler.NewBookHandler(deps.Store)
	pages.GET("/books", bookHandler.ListBooks)
	pages.POST("/createBook", bookHandler.CreateBook)
	pages.GET("/books/:id", bookHandler.ShowBook)

	exportHandler := handler.NewExportHandler(bookHandler)
	pages.GET("/export/books.csv", exportHandler.ExportCSV)
	pages.GET("/export/books.xlsx", exportHandler.ExportXLSX)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions)
	pages.GET("/signup", authHandler.SignupPage)
	pages.POST("/signup", authHandler.Signup)
	pages.GET("/login", authHandler.LoginPage)
	pages.POST("/login", authHandler.Login)
	pages.GET("/logout", authHandler.Logout)

	r.NoRoute(notFound)

	return r, nil
}

// notFound 按 Accept 头返回 JSON 或 HTML 的 404
func notFound(c *gin.Context) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "not found")
		return
	}
	util.ErrorPage(c, http.StatusNotFound, "Page not found")
}
