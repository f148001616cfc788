package routes

import (
	"supply-lending-tool/app"
	"supply-lending-tool/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	uc := controllers.NewUserController(s)
	itemCtl := controllers.NewItemController(s)
	loanCtl := controllers.NewLoanController(s)
	lenderCtl := controllers.NewLenderController(s)

	// 复用的中间件
	authMW := app.RequireLogin(s.AppSess, s.Repo)
	staffMW := app.RequireStaff()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 登录/注册（公开）
	// ------------------------------
	r.POST("/api/login", uc.Login)
	r.POST("/logout", uc.Logout)
	r.GET("/api/login-names", uc.LoginNames)
	r.POST("/api/register", uc.Register)
	r.POST("/api/setup_staff", uc.SetupStaff)

	// ------------------------------
	// 当前用户
	// ------------------------------
	r.GET("/api/me", authMW, seenMW, uc.Me)

	// ------------------------------
	// 物品（一览公开给登录用户，改动 staff 专用）
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems)

		staff := items.Group("", staffMW)
		{
			staff.POST("/bulk", itemCtl.BulkCreate)
			staff.POST("/update-bulk", itemCtl.BulkUpdate)
			staff.POST("/update_qty", itemCtl.UpdateQty)
			staff.POST("/update_note", itemCtl.UpdateNote)
		}
	}

	// ------------------------------
	// 借还
	// ------------------------------
	loans := r.Group("/api/loans", authMW, seenMW)
	{
		loans.POST("", loanCtl.Create)
		loans.GET("/unreturned", loanCtl.Unreturned)
		loans.POST("/return", loanCtl.Return)
		loans.POST("/return/bulk", loanCtl.BulkReturn)
	}

	// ------------------------------
	// 借出对象名单 + CSV 导入
	// ------------------------------
	lenders := r.Group("/api/lenders", authMW, seenMW)
	{
		lenders.GET("", lenderCtl.List)
		lenders.POST("/upload", lenderCtl.Upload)
	}

	// ------------------------------
	// 履历（仅 staff）
	// ------------------------------
	r.GET("/api/history", authMW, staffMW, seenMW, loanCtl.History)
}
