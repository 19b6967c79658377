//go:build wasm

package internal

import "sync"

var (
	mu            sync.Mutex
	globalContext *Context
)

func GetContext() *Context {
	mu.Lock()
	defer mu.Unlock()

	if globalContext == nil {
		globalContext = NewContext()
	}
	return globalContext
}

func ReleaseContext() {
	mu.Lock()
	defer mu.Unlock()

	globalContext = nil
}
