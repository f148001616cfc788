// controllers/srv.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"supply-lending-tool/app"
	"supply-lending-tool/db"
	"supply-lending-tool/session"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Repo    *db.Repo
	AppSess *session.AppSessionStore
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:    db.NewRepo(a.DB),
		AppSess: a.AppSessions(),
		Cfg:     a.Config,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// identity RequireLogin 放进 Context 的身份
func identity(c *gin.Context) (userID string, isStaff bool) {
	if v, ok := c.Get("userID"); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get("isStaff"); ok {
		isStaff, _ = v.(bool)
	}
	return
}

// mapLedgerError 业务错误 → HTTP 状态码
func mapLedgerError(c *gin.Context, err error) {
	switch err {
	case db.ErrItemNotFound, db.ErrLoanNotFound, db.ErrLenderNotFound:
		c.JSON(http.StatusNotFound, app.H{"ok": false, "error": err.Error()})
	case db.ErrInvalidQty, db.ErrEmptyBatch:
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "error": err.Error()})
	case db.ErrInsufficientStock:
		c.JSON(http.StatusConflict, app.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"ok": false, "error": err.Error()})
	}
}
