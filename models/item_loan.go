// models/item_loan.go
package models

import "time"

const (
	ItemTable   = "items"
	LenderTable = "lenders"
	LoanTable   = "loans"
)

type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"size:120" json:"category"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	TotalQty  int       `gorm:"not null;default:0" json:"totalQty"` // 总库存，可用数 = TotalQty - 未归还数量
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Loan struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ItemID   uint   `gorm:"index;not null" json:"itemId"`
	LenderID uint   `gorm:"index;not null" json:"lenderId"`
	Qty      int    `gorm:"not null" json:"qty"`
	Room     string `gorm:"size:120" json:"room"`

	StaffID *string `gorm:"type:uuid;index" json:"staffId,omitempty"` // 经手人

	BorrowedAt time.Time  `gorm:"index;not null" json:"borrowedAt"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"` // NULL = 未归还

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
func (Loan) TableName() string { return LoanTable }
