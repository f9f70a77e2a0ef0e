package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chat-backend-go/internal/model"
	"chat-backend-go/internal/repository"
)

// newTestDB 为每个测试创建一个独立的 SQLite 数据库并完成建表。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// memoryBlacklist 是 TokenBlacklist 的进程内实现，供测试替代 Redis。
type memoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemoryBlacklist() repository.TokenBlacklist {
	return &memoryBlacklist{entries: make(map[string]time.Time)}
}

func (m *memoryBlacklist) Add(_ context.Context, tokenString string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl > 0 {
		m.entries[tokenString] = time.Now().Add(ttl)
	}
	return nil
}

func (m *memoryBlacklist) Contains(_ context.Context, tokenString string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deadline, ok := m.entries[tokenString]
	return ok && time.Now().Before(deadline), nil
}
