package middleware

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen 熔断打开时直接拒绝调用。
var ErrBreakerOpen = errors.New("circuit breaker is open")

// BreakerState 熔断器状态。
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // 正常放行
	BreakerOpen                         // 熔断，直接拒绝
	BreakerHalfOpen                     // 试探恢复
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker 三态熔断器。仪表盘计算一次要扫多张表，
// 数据库持续出错时用它兜底，避免每次刷新都打满连接池。
type Breaker struct {
	maxFailures  int           // 连续失败多少次后打开
	openTimeout  time.Duration // 打开后多久允许试探
	probeLimit   int           // 半开期最多放行的试探数
	failures     int
	probes       int
	state        BreakerState
	lastFailTime time.Time
	mu           sync.Mutex
}

// NewBreaker 创建熔断器。probeLimit 固定为 1：
// 仪表盘请求本身就重，试探一次足够判断后端是否恢复。
func NewBreaker(maxFailures int, openTimeout time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	return &Breaker{
		maxFailures: maxFailures,
		openTimeout: openTimeout,
		probeLimit:  1,
		state:       BreakerClosed,
	}
}

// Do 在熔断器保护下执行 fn。打开状态返回 ErrBreakerOpen。
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	b.record(err)
	return err
}

// State 返回当前状态。
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if time.Since(b.lastFailTime) < b.openTimeout {
			return ErrBreakerOpen
		}
		b.state = BreakerHalfOpen
		b.probes = 0
		fallthrough
	case BreakerHalfOpen:
		if b.probes >= b.probeLimit {
			return ErrBreakerOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = BreakerClosed
		b.failures = 0
		b.probes = 0
		return
	}

	b.failures++
	b.lastFailTime = time.Now()
	if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
		b.state = BreakerOpen
		b.probes = 0
	}
}
