package idgen

import (
	"fmt"
	"sync"
	"time"

	sf "github.com/bwmarrin/snowflake"
)

// Node 封装雪花算法节点
type Node struct {
	node *sf.Node
}

var (
	epochOnce sync.Once
	epochErr  error
)

// NewNode 创建雪花算法节点
// startTime: 起始时间，格式："2006-01-02"，进程内只生效一次
// machineID: 机器ID (0-1023)
func NewNode(startTime string, machineID int64) (*Node, error) {
	epochOnce.Do(func() {
		if startTime == "" {
			return
		}
		st, err := time.Parse("2006-01-02", startTime)
		if err != nil {
			epochErr = fmt.Errorf("解析雪花算法起始时间失败: %w", err)
			return
		}
		sf.Epoch = st.UnixNano() / int64(time.Millisecond)
	})
	if epochErr != nil {
		return nil, epochErr
	}

	node, err := sf.NewNode(machineID)
	if err != nil {
		return nil, fmt.Errorf("创建雪花节点失败: %w", err)
	}
	return &Node{node: node}, nil
}

// NextID 生成唯一ID
func (n *Node) NextID() int64 {
	return n.node.Generate().Int64()
}
