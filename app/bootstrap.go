// app/bootstrap.go
package app

import (
	"context"
	"log"

	"supply-lending-tool/db"
	"supply-lending-tool/models"

	"github.com/google/uuid"
)

// BootstrapDefaultStaff 第一次启动时造一个初始 staff，之后跳过
func BootstrapDefaultStaff(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.DefaultStaffName == "" {
		return
	}
	n, err := repo.CountStaff(ctx)
	if err != nil {
		log.Printf("bootstrap: count staff: %v", err)
		return
	}
	if n > 0 {
		return
	}

	hashed, err := db.HashPIN(cfg.DefaultStaffPIN)
	if err != nil {
		log.Printf("bootstrap: hash pin: %v", err)
		return
	}
	u := &models.User{
		ID:      uuid.NewString(),
		Name:    cfg.DefaultStaffName,
		Email:   cfg.DefaultStaffEmail,
		PinHash: hashed,
		IsStaff: true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap: create staff: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] created default staff %q, change the PIN after first login", u.Name)
}
