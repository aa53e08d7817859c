package service

import (
	"hash/fnv"
	"sync"
)

// ── 进程内预订锁 ──
//
// 按 门店+日期 分片串行化"查桌→选桌→落库"的窗口，减少同进程并发
// 请求触发数据库排他约束的概率。最终权威仍是 reservations_no_overlap
// 约束：多实例部署时锁不跨进程，冲突由约束兜底并重试。

const bookingLockShards = 64

type bookingLocker struct {
	shards [bookingLockShards]sync.Mutex
}

func newBookingLocker() *bookingLocker { return &bookingLocker{} }

// Acquire 锁住 branch+date 对应的分片，返回释放函数
func (l *bookingLocker) Acquire(branchID, date string) func() {
	h := fnv.New32a()
	h.Write([]byte(branchID))
	h.Write([]byte{':'})
	h.Write([]byte(date))
	mu := &l.shards[h.Sum32()%bookingLockShards]
	mu.Lock()
	return mu.Unlock
}
