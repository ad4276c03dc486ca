package helpers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disposejs/dispose/internal/logger"
)

// Records nested stage timings for "--timing". A nil timer is valid and
// ignores every call.
type Timer struct {
	data  []timerData
	mutex sync.Mutex
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.mutex.Lock()
		t.data = append(t.data, timerData{name: name, time: time.Now()})
		t.mutex.Unlock()
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.mutex.Lock()
		t.data = append(t.data, timerData{name: name, time: time.Now(), isEnd: true})
		t.mutex.Unlock()
	}
}

// Renders the timings as an indented tree, one stage per line
func (t *Timer) String() string {
	if t == nil {
		return ""
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	type pair struct {
		timerData
		index int
	}

	var lines []string
	var stack []pair

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(lines)})
			lines = append(lines, "")
			continue
		}
		last := len(stack) - 1
		top := stack[last]
		stack = stack[:last]
		if item.name != top.name {
			panic("Internal error")
		}
		lines[top.index] = fmt.Sprintf("%s%s: %dms", strings.Repeat("  ", len(stack)),
			top.name, item.time.Sub(top.time).Milliseconds())
	}

	return strings.Join(lines, "\n")
}

func (t *Timer) Log(log logger.Log) {
	if t == nil {
		return
	}
	log.AddID(logger.MsgID_Pipeline_Timing, logger.Info, nil, logger.Range{},
		"Timing information:\n"+t.String())
}
