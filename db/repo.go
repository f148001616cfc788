package db

import (
	"context"
	"errors"

	"supply-lending-tool/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// 业务错误：调用方按值分支，不要当成致命错误
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrLenderNotFound    = errors.New("lender not found")
	ErrInvalidQty        = errors.New("quantity must be a positive integer")
	ErrEmptyBatch        = errors.New("empty batch")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// lockForUpdate 给查询加行锁。SQLite（测试用）不支持 FOR UPDATE，
// 写事务本身就是库级锁，所以直接跳过。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("is_staff = TRUE").
		Count(&n).Error
	return n, err
}

// 登录下拉框用：全部用户的 id/name/身份
type LoginName struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsStaff bool   `json:"-"`
}

func (r *Repo) ListLoginNames(ctx context.Context) ([]LoginName, error) {
	var rows []LoginName
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Select("id, name, is_staff").
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// 用数据库时间更准，且避免并发覆盖：计数自增
func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"last_seen_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
