package scheduling

import "time"

// Clock 时钟抽象
// 策略校验中的"当前时间"一律通过 Clock 显式注入，禁止读取环境全局时间，
// 测试中可用固定时钟复现任意时间点
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

// Now 返回系统当前时间
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock 固定时钟（测试用）
type FixedClock struct {
	T time.Time
}

// Now 返回固定时间
func (c FixedClock) Now() time.Time { return c.T }
