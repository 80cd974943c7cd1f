package credential

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrEmptyCredential = errors.New("credential is empty")

// Store — постоянное хранилище именованных строк.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string) error
	Delete(name string) error
}

// Service держит сессионную копию ключа и синхронизирует её с хранилищем.
// Ключ никогда не логируется и не возвращается наружу, кроме как через Current.
type Service struct {
	mu      sync.RWMutex
	name    string
	store   Store
	current string
}

// NewService читает сохранённый ключ один раз при создании.
// envKey используется, только если в хранилище ничего нет.
func NewService(name string, store Store, envKey string) *Service {
	s := &Service{name: name, store: store}
	if value, ok := store.Get(name); ok && strings.TrimSpace(value) != "" {
		s.current = value
	} else {
		s.current = strings.TrimSpace(envKey)
	}
	return s
}

// Current возвращает ключ по значению; пустая строка означает отсутствие ключа.
func (s *Service) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != ""
}

// Present сообщает, есть ли ключ, не раскрывая его.
func (s *Service) Present() bool {
	_, ok := s.Current()
	return ok
}

// Save сохраняет новый ключ в хранилище и в сессии.
func (s *Service) Save(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(s.name, value); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.current = value
	return nil
}

// Clear удаляет ключ из хранилища и из сессии.
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(s.name); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	s.current = ""
	return nil
}

// Mask возвращает ключ в виде, пригодном для показа: последние 4 символа.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", 8) + value[len(value)-4:]
}
