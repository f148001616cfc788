package models

import "time"

// Lender 借出对象名单，CSV 导入时允许重名（不做去重）
type Lender struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Lender) TableName() string { return LenderTable }
