package mongostore

import (
	"context"
	"os"
	"testing"

	"interntech/internal/shared/storage"
	"interntech/internal/shared/storage/storagetest"
)

// testStore 创建测试用 Store，使用独立数据库避免污染
func testStore(t *testing.T) storage.PersistentStore {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	s, err := NewStore(uri, "interntech_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	// 清空测试数据库
	ctx := context.Background()
	if err := s.db.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	// 重新创建索引
	if err := s.ensureIndexes(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})

	return s
}

// Compile-time interface check
var _ storage.PersistentStore = (*Store)(nil)

func TestStoreConformance(t *testing.T) {
	// 连接不可用时整体跳过
	testStore(t)
	storagetest.Run(t, testStore)
}
