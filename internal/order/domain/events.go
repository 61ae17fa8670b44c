package domain

import (
	"gorm.io/gorm"
)

// OrderEvent 订单生命周期事件，只追加
// 每次状态流转记录一条，含旧状态、新状态与原因
type OrderEvent struct {
	gorm.Model
	// 事件 ID（业务主键）
	EventID string `gorm:"column:event_id;type:varchar(32);uniqueIndex;not null" json:"event_id"`
	// 订单 ID
	OrderID string `gorm:"column:order_id;type:varchar(32);index;not null" json:"order_id"`
	// 流转前状态（创建事件为空）
	FromStatus OrderStatus `gorm:"column:from_status;type:varchar(20)" json:"from_status"`
	// 流转后状态
	ToStatus OrderStatus `gorm:"column:to_status;type:varchar(20);not null" json:"to_status"`
	// 原因（拒绝原因、取消原因等）
	Reason string `gorm:"column:reason;type:varchar(255)" json:"reason"`
}

// TableName 指定表名
func (OrderEvent) TableName() string {
	return "order_events"
}
