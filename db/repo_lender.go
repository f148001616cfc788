package db

import (
	"context"
	"strings"

	"supply-lending-tool/models"

	"gorm.io/gorm"
)

func (r *Repo) ListLenders(ctx context.Context) ([]models.Lender, error) {
	var ls []models.Lender
	err := r.DB.WithContext(ctx).Order("id DESC").Find(&ls).Error
	return ls, err
}

func (r *Repo) CreateLender(ctx context.Context, name string) (*models.Lender, error) {
	le := &models.Lender{Name: strings.TrimSpace(name)}
	return le, r.DB.WithContext(ctx).Create(le).Error
}

// ImportLenders CSV 导入：去掉首尾空白、丢弃空行，剩下的一个事务全插。
// 不做去重，重复导入同一份名单会出现重名行。返回实际插入条数。
func (r *Repo) ImportLenders(ctx context.Context, names []string) (int, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if t := strings.TrimSpace(n); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return 0, nil
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range cleaned {
			if err := tx.Create(&models.Lender{Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(cleaned), nil
}
