package conlog

import (
	"log"
	"sync"
	"sync/atomic"
)

var (
	mu        sync.RWMutex
	p         = log.Printf
	developer atomic.Bool
)

// SetPrintf redirects all output. nil restores log.Printf.
func SetPrintf(f func(string, ...interface{})) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		f = log.Printf
	}
	p = f
}

// SetDeveloper enables the output of DPrintf.
func SetDeveloper(b bool) {
	developer.Store(b)
}

func Printf(format string, v ...interface{}) {
	mu.RLock()
	f := p
	mu.RUnlock()
	f(format, v...)
}

// DPrintf prints only in developer mode.
func DPrintf(format string, v ...interface{}) {
	if !developer.Load() {
		return
	}
	Printf(format, v...)
}
