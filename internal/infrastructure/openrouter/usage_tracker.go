package openrouter

import (
	"sync"
	"time"
)

// UsageTracker 按模型跟踪滑动窗口内的出站调用次数
// 用于在免费模型触达配额前预防性切换，算法与 Redis 滑动窗口限流一致，
// 但这里跟踪的是本进程对上游的调用，内存实现即可
// 并发安全：HTTP 服务可能同时跑多条流水线
type UsageTracker struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  map[string][]time.Time

	// now 可注入，测试时替换为虚拟时钟
	now func() time.Time
}

// NewUsageTracker 创建跟踪器
func NewUsageTracker(limit int, window time.Duration) *UsageTracker {
	return &UsageTracker{
		limit:  limit,
		window: window,
		calls:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Record 记录一次对 model 的出站调用
func (t *UsageTracker) Record(model string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls[model] = append(t.prune(model), t.now())
}

// Count 返回窗口内 model 的调用次数
func (t *UsageTracker) Count(model string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	recent := t.prune(model)
	t.calls[model] = recent
	return len(recent)
}

// Saturated 判断 model 是否已触达窗口配额
func (t *UsageTracker) Saturated(model string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	recent := t.prune(model)
	t.calls[model] = recent
	return len(recent) >= t.limit
}

// LeastUsed 从候选中返回窗口内调用最少的模型
// exclude 非空时跳过该模型；候选为空返回空串
func (t *UsageTracker) LeastUsed(candidates []string, exclude string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := ""
	bestCount := -1
	for _, m := range candidates {
		if m == exclude {
			continue
		}
		recent := t.prune(m)
		t.calls[m] = recent
		if bestCount == -1 || len(recent) < bestCount {
			best = m
			bestCount = len(recent)
		}
	}
	return best
}

// prune 过滤掉窗口之外的时间戳，调用方需持锁
func (t *UsageTracker) prune(model string) []time.Time {
	cutoff := t.now().Add(-t.window)
	recent := t.calls[model][:0:0]
	for _, ts := range t.calls[model] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}
