// Package idgen 提供基于雪花算法的业务 ID 生成
package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	initOnce sync.Once
	initErr  error
)

// Init 初始化雪花节点，nodeID 取值范围 [0, 1023]
func Init(nodeID int64) error {
	initOnce.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

func mustNode() *snowflake.Node {
	if node == nil {
		// 未显式初始化时退化为节点 0，便于测试
		_ = Init(0)
	}
	return node
}

// NextID 生成下一个数值 ID
func NextID() int64 {
	return mustNode().Generate().Int64()
}

// NewOrderID 生成订单 ID
func NewOrderID() string {
	return fmt.Sprintf("ORD-%s", mustNode().Generate().Base58())
}

// NewExecutionID 生成成交 ID
func NewExecutionID() string {
	return fmt.Sprintf("EXE-%s", mustNode().Generate().Base58())
}

// NewTransactionID 生成账本交易 ID
func NewTransactionID() string {
	return fmt.Sprintf("TXN-%s", mustNode().Generate().Base58())
}

// NewAccountID 生成账户 ID
func NewAccountID() string {
	return fmt.Sprintf("ACC-%s", mustNode().Generate().Base58())
}

// NewEventID 生成事件 ID
func NewEventID() string {
	return fmt.Sprintf("EVT-%s", mustNode().Generate().Base58())
}
