package tui

import "context"

// taskHandle tracks the one in-flight task of a kind
type taskHandle struct {
	id     int
	cancel context.CancelFunc
}

// owns reports whether a message from task id belongs to this handle
func (h taskHandle) owns(id int) bool {
	return h.id != 0 && h.id == id
}

// stop cancels the task and forgets it
func (h *taskHandle) stop() {
	if h.cancel != nil {
		h.cancel()
	}
	*h = taskHandle{}
}

// taskCounter hands out task ids; zero is never used
type taskCounter int

// start cancels the previous task held by h and installs a new one
func (c *taskCounter) start(h *taskHandle) (context.Context, int) {
	h.stop()
	*c++
	ctx, cancel := context.WithCancel(context.Background())
	*h = taskHandle{id: int(*c), cancel: cancel}
	return ctx, h.id
}
