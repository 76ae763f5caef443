package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/permapi/base/log"
)

var (
	logger = log.Log()
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

// RecoverableGo runs f on a new goroutine and converts panics into events on
// the returned channel instead of crashing the process.
func RecoverableGo(f func()) chan *PanicEvent {
	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				stack := debug.Stack()
				logger.WithFields(log.Fields{"panic": p, "stack": string(stack)}).Error("goroutine panicked")
				panicChan <- &PanicEvent{Panic: p, Stack: stack}
			}
			close(panicChan)
		}()
		f()
	}()

	return panicChan
}
