package page

import (
	"sync"
	"time"
)

// BannerTTL es cuánto queda visible un banner.
const BannerTTL = 3 * time.Second

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

type Banner struct {
	Kind BannerKind
	Text string
}

// Timer y Clock permiten reemplazar time.AfterFunc en tests.
type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// banners muestra a lo sumo un banner; uno nuevo reemplaza al actual y reinicia el timer.
type banners struct {
	mu       sync.Mutex
	clock    Clock
	current  *Banner
	timer    Timer
	seq      int
	onChange func()
}

func newBanners(clock Clock, onChange func()) *banners {
	if clock == nil {
		clock = realClock{}
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &banners{clock: clock, onChange: onChange}
}

func (b *banners) show(kind BannerKind, text string) {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	seq := b.seq
	b.current = &Banner{Kind: kind, Text: text}
	b.timer = b.clock.AfterFunc(BannerTTL, func() { b.expire(seq) })
	b.mu.Unlock()

	b.onChange()
}

func (b *banners) expire(seq int) {
	b.mu.Lock()
	if seq != b.seq || b.current == nil {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.timer = nil
	b.mu.Unlock()

	b.onChange()
}

func (b *banners) get() (Banner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Banner{}, false
	}
	return *b.current, true
}
