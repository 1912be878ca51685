package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"book-catalog/internal/auth"
	"book-catalog/internal/middleware"
	"book-catalog/internal/session"
	"book-catalog/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责注册/登录/退出页面
type AuthHandler struct {
	Auth     *auth.Service
	Sessions *session.Manager

	// 登录成功后跳转的地址
	SuccessRedirect string
}

// NewAuthHandler 构造函数
func NewAuthHandler(svc *auth.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		Auth:            svc,
		Sessions:        sessions,
		SuccessRedirect: "/",
	}
}

// ---------- 注册 ----------

type signupForm struct {
	Username  string `form:"username"`
	Password  string `form:"password"`
	Password2 string `form:"password2"`
}

// SignupPage GET /signup
func (h *AuthHandler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{
		"title":  "Sign up",
		"errors": []string{},
	})
}

// Signup POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var form signupForm
	// 表单字段均为可选绑定，缺失的字段按空字符串参与校验
	_ = c.ShouldBind(&form)

	_, err := h.Auth.Signup(auth.SignupForm{
		Username:  form.Username,
		Password:  form.Password,
		Password2: form.Password2,
	})
	if err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			render(c, http.StatusOK, "signup.html", gin.H{
				"title":    "Sign up",
				"errors":   verr.Messages,
				"username": strings.TrimSpace(form.Username),
			})
			return
		}
		log.Printf("signup: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not create the account")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ---------- 登录 ----------

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"title":  "Log in",
		"errors": []string{},
	})
}

// Login POST /login
// 用户不存在和密码错误返回同样的提示，避免用户名枚举。
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)

	sess := middleware.CurrentSession(c)
	err := h.Auth.Login(auth.Credentials{
		Username: form.Username,
		Password: form.Password,
	}, sess)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			render(c, http.StatusUnauthorized, "login.html", gin.H{
				"title":    "Log in",
				"errors":   []string{auth.MsgInvalidLogin},
				"username": strings.TrimSpace(form.Username),
			})
			return
		}
		log.Printf("login: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not log in")
		return
	}

	if err := h.Sessions.Save(c, sess); err != nil {
		log.Printf("save session: %v", err)
		util.ErrorPage(c, http.StatusInternalServerError, "Could not start the session")
		return
	}

	c.Redirect(http.StatusFound, h.SuccessRedirect)
}

// ---------- 退出 ----------

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.Sessions.Destroy(c, sess); err != nil {
		// cookie 已清除，会话文件留给清理任务
		log.Printf("destroy session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}
