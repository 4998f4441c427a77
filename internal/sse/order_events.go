package sse

import (
	"context"
	"sync"

	"ms-restaurant/internal/models"
)

const clientBuffer = 10

// OrderEventEmitter fans order lifecycle events out to connected SSE
// clients. Subscribers ask for one table or, with table 0, every table.
type OrderEventEmitter struct {
	mu      sync.RWMutex
	clients map[int][]chan models.OrderEvent
}

func NewOrderEventEmitter() *OrderEventEmitter {
	return &OrderEventEmitter{clients: make(map[int][]chan models.OrderEvent)}
}

// Subscribe registers a client until ctx is done, at which point the
// returned channel is closed.
func (e *OrderEventEmitter) Subscribe(ctx context.Context, tableID int) <-chan models.OrderEvent {
	ch := make(chan models.OrderEvent, clientBuffer)

	e.mu.Lock()
	e.clients[tableID] = append(e.clients[tableID], ch)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(tableID, ch)
	}()
	return ch
}

// Emit never blocks; a client whose buffer is full misses the event.
func (e *OrderEventEmitter) Emit(event models.OrderEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	send := func(clients []chan models.OrderEvent) {
		for _, ch := range clients {
			select {
			case ch <- event:
			default:
			}
		}
	}
	send(e.clients[0])
	if event.TableID != 0 {
		send(e.clients[event.TableID])
	}
}

func (e *OrderEventEmitter) Subscribers() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, clients := range e.clients {
		n += len(clients)
	}
	return n
}

func (e *OrderEventEmitter) remove(tableID int, target chan models.OrderEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[tableID]
	for i, ch := range clients {
		if ch == target {
			e.clients[tableID] = append(clients[:i], clients[i+1:]...)
			close(target)
			break
		}
	}
	if len(e.clients[tableID]) == 0 {
		delete(e.clients, tableID)
	}
}
