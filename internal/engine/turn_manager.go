package engine

import (
	"container/heap"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/logger"
)

// TurnManager manages the wake-time queue of agent tasks.
type TurnManager struct {
	queue   TurnQueue
	itemMap map[domain.AgentHandle]*TurnItem
	seq     uint64
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.AgentHandle]*TurnItem),
	}
}

// Schedule registers a task to wake at the given virtual time.
func (tm *TurnManager) Schedule(h domain.AgentHandle, task Task, wake time.Duration) {
	if item, ok := tm.itemMap[h]; ok {
		tm.Reschedule(h, wake)
		item.Task = task
		return
	}

	tm.seq++
	item := &TurnItem{Handle: h, Task: task, Wake: wake, Seq: tm.seq}
	heap.Push(&tm.queue, item)
	tm.itemMap[h] = item

	logger.Log.WithField("agent", h).Debug("Task added to TurnManager")
}

// Reschedule moves a task to a new wake time; it goes behind tasks already waiting for the same time.
func (tm *TurnManager) Reschedule(h domain.AgentHandle, wake time.Duration) {
	if item, ok := tm.itemMap[h]; ok {
		tm.seq++
		tm.queue.Update(item, wake, tm.seq)
	}
}

// PeekNext returns the task whose turn is next, without removing it.
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// Remove drops a task from the queue (termination, disposal).
func (tm *TurnManager) Remove(h domain.AgentHandle) {
	if item, ok := tm.itemMap[h]; ok {
		heap.Remove(&tm.queue, item.Index)
		delete(tm.itemMap, h)
	}
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// DebugDump возвращает снимок очереди для отладки в порядке пробуждения
func (tm *TurnManager) DebugDump() []api.QueueItemView {
	// Пустой слайс, а не nil: в JSON это будет "[]", а не "null"
	result := make([]api.QueueItemView, 0, len(tm.queue))
	for _, item := range tm.queue {
		result = append(result, api.QueueItemView{
			Handle: item.Handle.Key(),
			WakeMs: item.Wake.Milliseconds(),
			Seq:    item.Seq,
			Index:  item.Index,
		})
	}
	sortQueueView(result)
	return result
}
