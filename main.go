package main

import (
	"context"
	"log"

	"supply-lending-tool/app"
	"supply-lending-tool/db"
	"supply-lending-tool/routes"
)

func main() {
	application := app.MustNew()
	defer application.Close()

	// 第一次启动时造初始 staff
	app.BootstrapDefaultStaff(context.Background(), application.Config, db.NewRepo(application.DB))

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	log.Printf("listening on :%s", application.Config.Port)
	_ = r.Run(":" + application.Config.Port)
}
