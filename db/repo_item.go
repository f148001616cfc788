// db/repo_item.go
package db

import (
	"context"
	"errors"
	"time"

	"supply-lending-tool/models"

	"gorm.io/gorm"
)

// ItemRow 物品一行 + 当前可用数（永远现算，不落库）
type ItemRow struct {
	ID        uint      `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	TotalQty  int       `json:"totalQty"`
	Note      string    `json:"note"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// openLoanQty 某物品未归还数量之和，没有未归还时为 0
func openLoanQty(tx *gorm.DB, itemID uint) (int, error) {
	var total int64
	err := tx.Model(&models.Loan{}).
		Where("item_id = ? AND returned_at IS NULL", itemID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&total).Error
	return int(total), err
}

// ItemAvailability 单个物品的可用数
func (r *Repo) ItemAvailability(ctx context.Context, itemID uint) (int, error) {
	tx := r.DB.WithContext(ctx)
	var it models.Item
	if err := tx.First(&it, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrItemNotFound
		}
		return 0, err
	}
	open, err := openLoanQty(tx, it.ID)
	if err != nil {
		return 0, err
	}
	return it.TotalQty - open, nil
}

// ListItemsWithAvailability 全部物品 + 可用数，一条 SQL 算完
func (r *Repo) ListItemsWithAvailability(ctx context.Context) ([]ItemRow, error) {
	var rows []ItemRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select(`
			i.id, i.category, i.name, i.total_qty, i.note, i.created_at, i.updated_at,
			i.total_qty - COALESCE(
				(SELECT SUM(l.qty) FROM `+models.LoanTable+` l
				 WHERE l.item_id = i.id AND l.returned_at IS NULL),
				0
			) AS available
		`).
		Order("i.id ASC").
		Scan(&rows).Error
	return rows, err
}

type BulkItemInput struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Qty      int    `json:"qty"`
}

// BulkInsertItems 批量新增，一个事务，任一行失败则全部回滚
func (r *Repo) BulkInsertItems(ctx context.Context, rows []BulkItemInput) ([]models.Item, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	for _, in := range rows {
		if in.Qty < 0 {
			return nil, ErrInvalidQty
		}
	}

	items := make([]models.Item, 0, len(rows))
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range rows {
			it := models.Item{Category: in.Category, Name: in.Name, TotalQty: in.Qty}
			if err := tx.Create(&it).Error; err != nil {
				return err
			}
			items = append(items, it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

type ItemUpdateInput struct {
	ID       uint   `json:"id"`
	TotalQty int    `json:"total_qty"`
	Note     string `json:"note"`
}

// BulkUpdateItems 批量改库存+备注，一个事务。id 不存在视为整批失败。
// 注意：这里不校验 total_qty 是否低于当前未归还数量，可用数可能临时变负，
// 归还后会自行恢复。
func (r *Repo) BulkUpdateItems(ctx context.Context, rows []ItemUpdateInput) error {
	if len(rows) == 0 {
		return ErrEmptyBatch
	}
	for _, in := range rows {
		if in.TotalQty < 0 {
			return ErrInvalidQty
		}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range rows {
			res := tx.Model(&models.Item{}).
				Where("id = ?", in.ID).
				Updates(map[string]interface{}{
					"total_qty": in.TotalQty,
					"note":      in.Note,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrItemNotFound
			}
		}
		return nil
	})
}

// AdjustItemQty 库存增减。锁行后读改写，防止并发 delta 互相覆盖；
// 结果下限为 0。返回新的 total_qty。
func (r *Repo) AdjustItemQty(ctx context.Context, itemID uint, delta int) (int, error) {
	var newQty int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := lockForUpdate(tx).First(&it, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		newQty = it.TotalQty + delta
		if newQty < 0 {
			newQty = 0
		}
		return tx.Model(&models.Item{}).
			Where("id = ?", it.ID).
			Update("total_qty", newQty).Error
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// UpdateItemNote 只改备注
func (r *Repo) UpdateItemNote(ctx context.Context, itemID uint, note string) error {
	res := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemID).
		Update("note", note)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
