package e

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordLog struct {
	lock   sync.Mutex
	errors []string
}

func (l *recordLog) Trace(text string, v ...interface{}) {}
func (l *recordLog) Debug(text string, v ...interface{}) {}
func (l *recordLog) Info(text string, v ...interface{})  {}
func (l *recordLog) Warn(text string, v ...interface{})  {}
func (l *recordLog) Fatal(text string, v ...interface{}) {}
func (l *recordLog) Error(text string, v ...interface{}) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(text, v...))
}

func TestOnErrorLog(t *testing.T) {
	l := &recordLog{}
	func() {
		defer OnErrorLog(l, "conn-1")
		panic("boom")
	}()
	if assert.Len(t, l.errors, 1) {
		assert.Contains(t, l.errors[0], "conn-1")
		assert.Contains(t, l.errors[0], "boom")
	}
}

func TestOnErrorNoPanic(t *testing.T) {
	l := &recordLog{}
	func() {
		defer OnErrorLog(l, "quiet")
	}()
	assert.Empty(t, l.errors)

	assert.NotPanics(t, func() {
		defer OnError("default")
		panic("handled by default logger")
	})
}
