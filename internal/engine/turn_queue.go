package engine

import (
	"container/heap"
	"time"

	"github.com/depp1024/living/internal/domain"
)

// Task - кооперативная задача области: работает до точки приостановки и возвращает задержку.
type Task interface {
	Step(now time.Duration) (delay time.Duration, done bool, err error)
}

// TurnItem обертка для элемента очереди приоритетов
type TurnItem struct {
	Handle domain.AgentHandle
	Task   Task
	Wake   time.Duration // Виртуальное время пробуждения. Чем меньше, тем раньше.
	Seq    uint64        // Порядок постановки: при равном Wake раньше тот, кто встал раньше
	Index  int           // Индекс в куче (нужен для update)
}

// TurnQueue реализует heap.Interface и хранит TurnItems
type TurnQueue []*TurnItem

func (pq TurnQueue) Len() int { return len(pq) }

func (pq TurnQueue) Less(i, j int) bool {
	if pq[i].Wake != pq[j].Wake {
		return pq[i].Wake < pq[j].Wake
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq TurnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TurnQueue) Push(x any) {
	item := x.(*TurnItem)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *TurnQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Update изменяет время пробуждения элемента в очереди
func (pq *TurnQueue) Update(item *TurnItem, wake time.Duration, seq uint64) {
	item.Wake = wake
	item.Seq = seq
	heap.Fix(pq, item.Index)
}
