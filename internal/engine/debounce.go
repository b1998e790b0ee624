package engine

import (
	"sync"
	"time"
)

// DefaultSyncDelay は連続トリガーをまとめる待ち時間
const DefaultSyncDelay = 200 * time.Millisecond

// Debouncer は連続したsync要求を1回にまとめる。
// 待機中の要求は後続のTriggerで延長され、実行中に来た要求は捨てられる
// （実行中のsyncに再入しない）。
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	running bool
	fn      func()
}

// NewDebouncer は新しいDebouncerを作成する。delay<=0は既定値になる
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultSyncDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger はsyncを予約する。実行中なら何もしない
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	// Resetは発火済みタイマーを蘇らせて多重実行を招くので、
	// 毎回止めて張り直す
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.run)
}

func (d *Debouncer) run() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

// Flush は待機中の予約を今すぐ実行する（テストと終了処理用）
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	if pending {
		d.timer = nil
	}
	d.mu.Unlock()

	if pending {
		d.run()
	}
}
