package middleware

import (
	"log"

	"book-catalog/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	currentSessionKey = "currentSession"

	// template-visible keys, mirrored from the session on every request
	KeyIsAuthenticated = "isAuthenticated"
	KeyUser            = "user"
)

// SessionMiddleware 加载当前会话，放入 context，并刷新已存在会话的活跃时间。
// 会话存储出错时按匿名会话继续处理请求。
func SessionMiddleware(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := m.Load(c)
		if err != nil {
			log.Printf("load session: %v", err)
		}

		// 已落盘的会话在每次请求时续期
		if !sess.IsNew() {
			if err := m.Save(c, sess); err != nil {
				log.Printf("touch session %s: %v", sess.ID(), err)
			}
		}

		c.Set(currentSessionKey, sess)
		c.Set(KeyIsAuthenticated, sess.IsAuthenticated())
		c.Set(KeyUser, sess.User())
		c.Next()
	}
}

// CurrentSession 取出 SessionMiddleware 放入的会话句柄。
// 未挂载中间件时返回一个新的匿名会话，调用方无需判空。
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(currentSessionKey); ok {
		if sess, ok := v.(*session.Session); ok && sess != nil {
			return sess
		}
	}
	return session.Anonymous()
}
