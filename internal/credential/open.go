package credential

import (
	"log/slog"
	"strings"

	"postgen/internal/config"
)

// OpenStore выбирает хранилище по CREDENTIAL_STORE: "memory" или файл (по умолчанию).
func OpenStore(cfg config.CredentialConfig, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.StoreType) {
	case "memory":
		return NewMemoryStore(), nil
	default:
		store, err := NewFileStore(cfg.StorePath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
