package controllers

import (
	"net/http"

	"supply-lending-tool/app"
	"supply-lending-tool/db"
	"supply-lending-tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// Login 登录。历史原因：请求体里的 name 字段装的是 users.id。
func (uc *UserController) Login(c *gin.Context) {
	var in struct {
		Name string `json:"name" binding:"required"`
		PIN  string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Repo.FindUserByID(c.Request.Context(), in.Name)
	if err != nil || !db.CheckPIN(u.PinHash, in.PIN) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "wrong user or PIN"})
		return
	}

	_ = uc.Repo.TouchUserLogin(c.Request.Context(), u.ID, c.ClientIP(), c.Request.UserAgent())

	sid := uuid.NewString()
	if err := uc.AppSess.Create(c.Request.Context(), sid, u.ID, u.IsStaff); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	uc.setAppCookie(c.Writer, sid, uc.Cfg.SessionTTL)

	role := "user"
	if u.IsStaff {
		role = "staff"
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "role": role})
}

func (uc *UserController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = uc.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	uc.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (uc *UserController) Me(c *gin.Context) {
	userID, _ := identity(c)
	u, err := uc.Repo.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"id":       u.ID,
		"name":     u.Name,
		"is_staff": u.IsStaff,
	})
}

// LoginNames 登录页下拉框：全部用户 id/name/身份
func (uc *UserController) LoginNames(c *gin.Context) {
	rows, err := uc.Repo.ListLoginNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	names := make([]entry, 0, len(rows))
	for _, r := range rows {
		t := "user"
		if r.IsStaff {
			t = "staff"
		}
		names = append(names, entry{ID: r.ID, Name: r.Name, Type: t})
	}
	c.JSON(http.StatusOK, app.H{"names": names})
}

// Register 一般用户注册
func (uc *UserController) Register(c *gin.Context) {
	uc.createUser(c, false)
}

// SetupStaff staff 手动追加
func (uc *UserController) SetupStaff(c *gin.Context) {
	uc.createUser(c, true)
}

func (uc *UserController) createUser(c *gin.Context, isStaff bool) {
	var in struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
		PIN   string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
		return
	}
	if !db.ValidPIN(in.PIN) {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": "PIN must be 4 digits"})
		return
	}

	hashed, err := db.HashPIN(in.PIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"ok": false, "error": err.Error()})
		return
	}
	u := &models.User{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		PinHash: hashed,
		IsStaff: isStaff,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"ok": false, "error": "registration failed"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
