package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/internal/repository"
	"dealer_stock_v1_202608/pkg/utils"
)

func setupTokenTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Store{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// 注意：token 缓存是进程级的，各测试必须用不同的 OwnerEmail 隔离

func TestTokenService_GetAccessToken(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/authenticate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.FormValue("key") != "my-key" || r.FormValue("secret") != "my-secret" {
			t.Errorf("凭据错误: key=%s", r.FormValue("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-abc","expires_in":900}`))
	}))
	defer server.Close()

	db := setupTokenTestDB(t)
	store := &model.Store{OwnerEmail: "token-a@example.com", APIKey: "my-key", APISecret: "my-secret", Status: model.StoreStatusActive}
	db.Create(store)

	repo := repository.NewStoreRepository(db)
	svc := NewTokenService(repo, utils.NewTraderClient(5*time.Second), server.URL)

	token, err := svc.GetAccessToken(context.Background(), store)
	if err != nil {
		t.Fatalf("取令牌失败: %v", err)
	}
	if token != "tok-abc" {
		t.Errorf("token = %s", token)
	}

	// 第二次走缓存，不再打认证端点
	token, err = svc.GetAccessToken(context.Background(), store)
	if err != nil || token != "tok-abc" {
		t.Fatalf("缓存命中失败: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("认证端点被调用 %d 次, want 1", calls)
	}

	// 令牌入库
	var saved model.Store
	db.First(&saved, store.ID)
	if saved.AccessToken != "tok-abc" || saved.TokenStatus != model.TokenStatusValid {
		t.Errorf("入库状态 = %s / %s", saved.AccessToken, saved.TokenStatus)
	}
}

func TestTokenService_MissingCredentials(t *testing.T) {
	db := setupTokenTestDB(t)
	store := &model.Store{OwnerEmail: "token-b@example.com", Status: model.StoreStatusActive}
	db.Create(store)

	svc := NewTokenService(repository.NewStoreRepository(db), utils.NewTraderClient(time.Second), "http://127.0.0.1:1")

	_, err := svc.GetAccessToken(context.Background(), store)
	se := AsStockError(err)
	if se.Kind != ErrAuthentication {
		t.Errorf("kind = %s, want %s", se.Kind, ErrAuthentication)
	}
}

func TestTokenService_UpstreamRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer server.Close()

	db := setupTokenTestDB(t)
	store := &model.Store{OwnerEmail: "token-c@example.com", APIKey: "bad", APISecret: "bad", Status: model.StoreStatusActive}
	db.Create(store)

	svc := NewTokenService(repository.NewStoreRepository(db), utils.NewTraderClient(5*time.Second), server.URL)

	_, err := svc.GetAccessToken(context.Background(), store)
	se := AsStockError(err)
	if se.Kind != ErrAuthentication {
		t.Errorf("kind = %s, want %s", se.Kind, ErrAuthentication)
	}

	// 拒绝后店铺 token 状态翻转为无效
	var saved model.Store
	db.First(&saved, store.ID)
	if saved.TokenStatus != model.TokenStatusInvalid {
		t.Errorf("tokenStatus = %s, want %s", saved.TokenStatus, model.TokenStatusInvalid)
	}
}

func TestTokenService_RefreshBypassesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.Write([]byte(`{"access_token":"tok-old","expires_in":900}`))
		} else {
			w.Write([]byte(`{"access_token":"tok-new","expires_in":900}`))
		}
	}))
	defer server.Close()

	db := setupTokenTestDB(t)
	store := &model.Store{OwnerEmail: "token-d@example.com", APIKey: "k", APISecret: "s", Status: model.StoreStatusActive}
	db.Create(store)

	svc := NewTokenService(repository.NewStoreRepository(db), utils.NewTraderClient(5*time.Second), server.URL)

	if _, err := svc.GetAccessToken(context.Background(), store); err != nil {
		t.Fatalf("首次取令牌失败: %v", err)
	}
	if err := svc.RefreshToken(context.Background(), store); err != nil {
		t.Fatalf("刷新失败: %v", err)
	}

	token, _ := svc.GetAccessToken(context.Background(), store)
	if token != "tok-new" {
		t.Errorf("token = %s, want tok-new", token)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("认证端点被调用 %d 次, want 2", calls)
	}
}
