package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrReservationConflict 预订写入冲突：同桌同时段已被并发请求占用
// 对应数据库排他约束违例（SQLSTATE 23P01），调用方应重新选桌后重试一次
var ErrReservationConflict = errors.New("该桌位时段已被占用")
