package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore хранит именованные значения в памяти и синхронизирует их с JSON-файлом.
// Формат файла: JSON-объект map[string]string. Файл создаётся с правами 0600.
type FileStore struct {
	mu     sync.RWMutex
	values map[string]string
	path   string
	logger *slog.Logger
}

// NewFileStore создаёт FileStore и загружает данные из файла.
// Повреждённый файл не мешает старту: логируем и начинаем с пустого набора.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore path is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fs := &FileStore{
		values: make(map[string]string),
		path:   path,
		logger: logger,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Get возвращает значение по имени.
func (s *FileStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[name]
	return value, ok
}

// Set сохраняет значение и атомарно записывает состояние на диск.
func (s *FileStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.values[name]
	s.values[name] = value
	if err := s.persistLocked(); err != nil {
		if existed {
			s.values[name] = prev
		} else {
			delete(s.values, name)
		}
		return err
	}
	return nil
}

// Delete удаляет значение и записывает новое состояние на диск.
func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[name]; !ok {
		return nil
	}
	delete(s.values, name)
	return s.persistLocked()
}

func (s *FileStore) load() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		s.logger.Warn("credential store unreadable", slog.String("path", s.path), slog.String("error", err.Error()))
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("credential store corrupted", slog.String("path", s.path), slog.String("error", err.Error()))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for name, value := range raw {
		if name == "" {
			continue
		}
		s.values[name] = value
	}
	return nil
}

func (s *FileStore) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal values: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmpFile.Name()
	if err := os.Chmod(tmpName, 0o600); err != nil && !errors.Is(err, os.ErrPermission) {
		tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
