package utils

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	SetCache("cache-test-a", "value-1")

	got, ok := GetCache("cache-test-a")
	if !ok || got != "value-1" {
		t.Errorf("got %s, ok=%v", got, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	SetCacheWithTTL("cache-test-b", "short-lived", 10*time.Millisecond)

	if _, ok := GetCache("cache-test-b"); !ok {
		t.Fatal("写入后立即读取应命中")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := GetCache("cache-test-b"); ok {
		t.Error("过期后不应命中")
	}
}

func TestCache_Delete(t *testing.T) {
	SetCache("cache-test-c", "value")
	DeleteCache("cache-test-c")

	if _, ok := GetCache("cache-test-c"); ok {
		t.Error("删除后不应命中")
	}
}

func TestCache_MissingKey(t *testing.T) {
	if _, ok := GetCache("cache-test-never-set"); ok {
		t.Error("不存在的 key 不应命中")
	}
}
