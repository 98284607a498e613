package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Gauge holds the last observed value.
type Gauge struct {
	value int64
}

func (g *Gauge) Set(n int64) {
	atomic.StoreInt64(&g.value, n)
}

func (g *Gauge) Load() int64 {
	return atomic.LoadInt64(&g.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the process-wide business counters.
type Registry struct {
	OrdersPlaced      Counter
	CheckoutsRejected Counter
	ListingsCreated   Counter
	QRCodesGenerated  Counter
	CartsSwept        Counter
	ActiveCarts       Gauge

	started time.Time
}

func NewRegistry() *Registry {
	return &Registry{started: time.Now()}
}

type Snapshot struct {
	OrdersPlaced      uint64  `json:"ordersPlaced"`
	CheckoutsRejected uint64  `json:"checkoutsRejected"`
	ListingsCreated   uint64  `json:"listingsCreated"`
	QRCodesGenerated  uint64  `json:"qrCodesGenerated"`
	CartsSwept        uint64  `json:"cartsSwept"`
	ActiveCarts       int64   `json:"activeCarts"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
}

func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		OrdersPlaced:      r.OrdersPlaced.Load(),
		CheckoutsRejected: r.CheckoutsRejected.Load(),
		ListingsCreated:   r.ListingsCreated.Load(),
		QRCodesGenerated:  r.QRCodesGenerated.Load(),
		CartsSwept:        r.CartsSwept.Load(),
		ActiveCarts:       r.ActiveCarts.Load(),
		UptimeSeconds:     time.Since(r.started).Seconds(),
	}
}
