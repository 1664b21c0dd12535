package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound: объекта с таким ключом нет.
var ErrNotFound = errors.New("blob not found")

// Info: метаданные объекта для отдачи клиенту.
type Info struct {
	Size        int64
	ContentType string
}

// Store: хранилище бинарных файлов (логотипы сервисов). Каталог хранит только ключ.
type Store interface {
	// Put сохраняет r под key; пустой key генерируется. size < 0, размер неизвестен.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, Info, error)
	Delete(ctx context.Context, key string) error
}

// NewKey: ключ вида 2025/01/<hex>.<ext>, расширение берётся из имени загруженного файла.
func NewKey(filename string) string {
	now := time.Now().UTC()
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), randomHex(16), ext)
}

// cleanKey отклоняет ключи, выходящие за корень хранилища.
func cleanKey(key string) (string, error) {
	k := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if k == "" {
		return "", fmt.Errorf("empty blob key")
	}
	k = path.Clean("/" + k)[1:]
	if k == "" || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return k, nil
}

// randomHex возвращает hex длиной 2*n символов
func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
