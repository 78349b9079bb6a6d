package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionUserKey = "user_id"

// Register 创建账号。提供正确的 adminAccessToken 时授予管理员角色，
// 否则一律为普通成员。
func (a *API) Register(c *gin.Context) {
	var input struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		AvatarURL        string `json:"avatarUrl"`
		Bio              string `json:"bio"`
		AdminAccessToken string `json:"adminAccessToken"`
	}
	if !bindJSON(c, &input, "invalid registration payload") {
		return
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" || email == "" || input.Password == "" {
		respondError(c, http.StatusBadRequest, "name, email and password are required")
		return
	}

	var existing db.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "user already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	role := db.RoleMember
	if a.adminAccessToken != "" && input.AdminAccessToken == a.adminAccessToken {
		role = db.RoleAdmin
	}

	user := db.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		Bio:       strings.TrimSpace(input.Bio),
		Role:      role,
	}
	if err := a.db.Create(&user).Error; err != nil {
		// 并发注册同一邮箱时预检查可能都通过，唯一索引兜底
		if isDuplicateEmail(err) {
			respondError(c, http.StatusBadRequest, "user already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to register")
		return
	}

	if err := a.startSession(c, user.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login 处理登录请求并建立会话
func (a *API) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &input, "invalid login payload") {
		return
	}

	var user db.User
	if err := a.db.Where("email = ?", strings.TrimSpace(strings.ToLower(input.Email))).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := a.startSession(c, user.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Profile 返回当前登录账号
func (a *API) Profile(c *gin.Context) {
	user, ok := a.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// isDuplicateEmail 识别 users.email 唯一索引的写入冲突。
func isDuplicateEmail(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (a *API) startSession(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

// AuthRequired 校验会话中存在账号，并把账号 ID 放入请求上下文。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserKey) == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 在 AuthRequired 的基础上要求管理员角色。
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.currentUser(c)
		if !ok {
			c.Abort()
			return
		}
		if user.Role != db.RoleAdmin {
			respondError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser resolves the session user. It writes the error response itself
// so call sites can simply return on !ok.
func (a *API) currentUser(c *gin.Context) (*db.User, bool) {
	session := sessions.Default(c)
	raw := session.Get(sessionUserKey)
	if raw == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	userID, ok := raw.(uint)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	return &user, true
}
