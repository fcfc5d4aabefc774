package inflight

import "sync"

// Set защищает пользовательские действия от повторного запуска,
// пока предыдущий вызов с тем же ключом не завершился (двойной тап по кнопке)
type Set struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewSet создает пустой набор
func NewSet() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// TryAcquire помечает ключ занятым. Возвращает false, если ключ уже занят
func (s *Set) TryAcquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.keys[key]; busy {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Release освобождает ключ
func (s *Set) Release(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

// Busy проверяет, занят ли ключ
func (s *Set) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.keys[key]
	return busy
}
