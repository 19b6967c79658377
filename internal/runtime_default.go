//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// one SignalContext per goroutine: the graph is single-threaded
var contexts sync.Map

func GetContext() *Context {
	gid := getGID()

	if c, ok := contexts.Load(gid); ok {
		return c.(*Context)
	}

	c := NewContext()
	contexts.Store(gid, c)
	return c
}

// ReleaseContext forgets the calling goroutine's context.
func ReleaseContext() {
	contexts.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}
