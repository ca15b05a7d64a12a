// Package file реализует резервное хранилище в виде JSON-файлов на диске.
// Используется, когда основная БД недоступна.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/sponsortrack/internal/repository"
)

const (
	sponsorsFile = "sponsors.json"
	teamsFile    = "teams.json"
)

// Store реализует repository.Store поверх двух JSON-файлов.
// Цикл чтение-изменение-запись каждой коллекции защищен мьютексом,
// поэтому хранилище безопасно только в пределах одного процесса.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time

	sponsorsMu sync.Mutex
	teamsMu    sync.Mutex
}

// Open создает каталог данных и пустые коллекции, если их еще нет
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{
		dir:    filepath.Clean(dir),
		logger: logger,
		now:    time.Now,
	}

	for _, name := range []string{sponsorsFile, teamsFile} {
		path := s.path(name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", name, err)
			}
		}
	}

	return s, nil
}

// Name возвращает метку хранилища
func (s *Store) Name() string {
	return repository.SourceFile
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// newID синтезирует id из времени в base36 и случайного суффикса
func (s *Store) newID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(s.now().UnixMilli(), 36) + suffix
}

// readCollection читает коллекцию целиком. Ошибки чтения и разбора
// не пробрасываются: коллекция считается пустой.
func readCollection[T any](s *Store, name string) []T {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		s.logger.Warn("Failed to read local collection, treating as empty", "file", name, "error", err)
		return nil
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Failed to parse local collection, treating as empty", "file", name, "error", err)
		return nil
	}
	return items
}

// writeCollection перезаписывает коллекцию через временный файл и rename
func writeCollection[T any](s *Store, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // после успешного rename файла уже нет
	}()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
