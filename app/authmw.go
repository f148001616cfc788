package app

import (
	"net/http"

	"supply-lending-tool/db"
	"supply-lending-tool/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// RequireLogin 把 cookie 换成明确的身份 (userID, isStaff) 放进 Context，
// 后续 handler 和 Repo 调用都只认这份身份，不再碰会话。
func RequireLogin(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "login required"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在，staff 标志以数据库当前值为准
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set("userID", u.ID)
		c.Set("userName", u.Name)
		c.Set("isStaff", u.IsStaff)

		c.Next()
	}
}

// RequireStaff staff 专用接口的门卫，必须排在 RequireLogin 之后
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("isStaff")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if staff, _ := v.(bool); !staff {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "staff only"})
			return
		}
		c.Next()
	}
}
