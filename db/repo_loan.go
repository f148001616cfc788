// db/repo_loan.go
package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"supply-lending-tool/models"

	"gorm.io/gorm"
)

type CreateLoanInput struct {
	ItemID   uint
	LenderID uint
	Qty      int
	Room     string
	StaffID  string // 经手人，来自会话，不信任请求体
}

// CreateLoan 借出：原子操作 = 锁住 item → 事务内现算可用数 → 新建 loan。
// 同一物品的并发借出在行锁上排队，不同物品互不影响。
func (r *Repo) CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	if in.Qty <= 0 {
		return nil, ErrInvalidQty
	}

	var loan *models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 锁住该物品，可用数检查和插入之间不允许别的借出挤进来
		var it models.Item
		if err := lockForUpdate(tx).First(&it, in.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&models.Lender{}).Where("id = ?", in.LenderID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrLenderNotFound
		}

		// 2) 事务内现算，避免读到过期的可用数
		open, err := openLoanQty(tx, it.ID)
		if err != nil {
			return err
		}
		if in.Qty > it.TotalQty-open {
			return ErrInsufficientStock
		}

		// 3) 新建未归还 loan
		l := &models.Loan{
			ItemID:     it.ID,
			LenderID:   in.LenderID,
			Qty:        in.Qty,
			Room:       in.Room,
			BorrowedAt: time.Now().UTC(),
		}
		if s := strings.TrimSpace(in.StaffID); s != "" {
			l.StaffID = &s
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		loan = l
		return nil
	})
	return loan, err
}

// ReturnLoan 归还一件。幂等：已归还的不再改写时间戳。
func (r *Repo) ReturnLoan(ctx context.Context, loanID uint) (*models.Loan, error) {
	var l models.Loan
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&l, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if l.ReturnedAt != nil {
			return nil
		}
		now := time.Now().UTC()
		l.ReturnedAt = &now
		return tx.Save(&l).Error
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// BulkReturnLoans 批量归还，一个事务。只关掉仍未归还的行，
// 已归还的静默跳过；返回实际关掉的行数。
func (r *Repo) BulkReturnLoans(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyBatch
	}

	var affected int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Loan{}).
			Where("id IN ? AND returned_at IS NULL", ids).
			Update("returned_at", time.Now().UTC())
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// UnreturnedLoanRow 未归还一览（带物品/借出对象/经手人名字）
type UnreturnedLoanRow struct {
	ID         uint      `json:"id"`
	Room       string    `json:"room"`
	Qty        int       `json:"qty"`
	BorrowedAt time.Time `json:"borrowedAt"`
	ItemName   string    `json:"itemName"`
	LenderName string    `json:"lenderName"`
	StaffName  *string   `json:"userName,omitempty"`
}

func (r *Repo) ListUnreturnedLoans(ctx context.Context) ([]UnreturnedLoanRow, error) {
	var rows []UnreturnedLoanRow
	err := r.DB.WithContext(ctx).
		Table(models.LoanTable+" l").
		Select(`
			l.id, l.room, l.qty, l.borrowed_at,
			i.name  AS item_name,
			le.name AS lender_name,
			u.name  AS staff_name
		`).
		Joins("JOIN "+models.ItemTable+" i ON l.item_id = i.id").
		Joins("JOIN "+models.LenderTable+" le ON l.lender_id = le.id").
		Joins("LEFT JOIN users u ON l.staff_id = u.id").
		Where("l.returned_at IS NULL").
		Order("l.borrowed_at ASC").
		Scan(&rows).Error
	return rows, err
}

// HistoryRow 履历检索结果
type HistoryRow struct {
	ID         uint       `json:"id"`
	ItemName   string     `json:"item_name"`
	Category   string     `json:"category"`
	LenderName string     `json:"lender_name"`
	Qty        int        `json:"qty"`
	Room       string     `json:"room"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	StaffName  *string    `json:"staff_name,omitempty"`
}

// SearchLoanHistory 履历 + 模糊检索（房间/物品名/借出对象名），
// onlyOpen 时只看未归还。
func (r *Repo) SearchLoanHistory(ctx context.Context, q string, onlyOpen bool) ([]HistoryRow, error) {
	pat := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"

	qry := r.DB.WithContext(ctx).
		Table(models.LoanTable+" l").
		Select(`
			l.id, l.qty, l.room, l.borrowed_at, l.returned_at,
			i.name     AS item_name,
			i.category AS category,
			le.name    AS lender_name,
			u.name     AS staff_name
		`).
		Joins("JOIN "+models.ItemTable+" i ON l.item_id = i.id").
		Joins("JOIN "+models.LenderTable+" le ON l.lender_id = le.id").
		Joins("LEFT JOIN users u ON l.staff_id = u.id").
		Where("LOWER(l.room) LIKE ? OR LOWER(i.name) LIKE ? OR LOWER(le.name) LIKE ?", pat, pat, pat)
	if onlyOpen {
		qry = qry.Where("l.returned_at IS NULL")
	}

	var rows []HistoryRow
	err := qry.
		Order("l.room ASC, l.borrowed_at DESC").
		Scan(&rows).Error
	return rows, err
}
