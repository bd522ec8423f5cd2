package util

import "sync"

// LatestQueue guarda só o valor mais recente de cada chave até ser drenada.
// Produtores em goroutines chamam Put; o loop principal chama Drain.
type LatestQueue[K comparable, V any] struct {
	mu     sync.Mutex
	order  []K
	latest map[K]V
}

// Entry é um par chave/valor devolvido por Drain.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

func NewLatestQueue[K comparable, V any]() *LatestQueue[K, V] {
	return &LatestQueue[K, V]{latest: make(map[K]V)}
}

// Put registra value para key, substituindo um valor ainda não drenado.
// Retorna false quando substituiu.
func (q *LatestQueue[K, V]) Put(key K, value V) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, seen := q.latest[key]
	q.latest[key] = value
	if seen {
		return false
	}
	q.order = append(q.order, key)
	return true
}

// Drain esvazia a fila e devolve os valores na ordem da primeira chegada de cada chave.
func (q *LatestQueue[K, V]) Drain() []Entry[K, V] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.order) == 0 {
		return nil
	}
	out := make([]Entry[K, V], 0, len(q.order))
	for _, k := range q.order {
		out = append(out, Entry[K, V]{Key: k, Value: q.latest[k]})
	}
	q.order = q.order[:0]
	clear(q.latest)
	return out
}

// Reset descarta tudo o que não foi drenado.
func (q *LatestQueue[K, V]) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.order = q.order[:0]
	clear(q.latest)
}
