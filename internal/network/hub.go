package network

import (
	"sync"

	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/logger"
)

// Broadcaster занимается только рассылкой сообщений наблюдателям
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID сессии наблюдателя -> Личный канал
	subscribers map[string]chan api.ServerMessage
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
	}
}

// Register создает личный канал наблюдателя
func (b *Broadcaster) Register(observerID string) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[observerID]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, 100)
	b.subscribers[observerID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(observerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[observerID]; ok {
		close(ch)
		delete(b.subscribers, observerID)
	}
}

// SendTo отправляет сообщение конкретному наблюдателю (Unicast)
func (b *Broadcaster) SendTo(observerID string, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[observerID]; ok {
		select {
		case ch <- msg:
		default:
			logger.Log.WithField("observer", observerID).Debug("Hub: channel full, message dropped")
		}
	}
}

// Broadcast отправляет всем. Медленный наблюдатель пропускает сообщение, область не ждёт.
func (b *Broadcaster) Broadcast(msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, подключён ли наблюдатель
func (b *Broadcaster) HasSubscriber(observerID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[observerID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
