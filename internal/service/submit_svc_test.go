package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"dealer_stock_v1_202608/pkg/trader"
)

func testPayload() *trader.StockPayload {
	return &trader.StockPayload{
		Vehicle:    &trader.Vehicle{Make: "Audi", Model: "Q7"},
		Metadata:   &trader.Metadata{LifecycleState: "FORECOURT"},
		Features:   []trader.Feature{},
		Media:      &trader.Media{Images: []trader.ImageRef{}},
		Advertiser: &trader.Advertiser{AdvertiserID: "10028", Location: []string{}},
	}
}

func TestSubmitService_Success(t *testing.T) {
	dispatcher := &mockDispatcher{
		sendOnceFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodPost {
				t.Errorf("method = %s", req.Method)
			}
			if !strings.Contains(req.URL.String(), "/stock?advertiserId=10028") {
				t.Errorf("url = %s", req.URL)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("authorization = %s", got)
			}

			// 请求体必须是合法的刊登报文
			body, _ := io.ReadAll(req.Body)
			var sent trader.StockPayload
			if err := json.Unmarshal(body, &sent); err != nil {
				t.Fatalf("请求体解析失败: %v", err)
			}
			if sent.Vehicle.Make != "Audi" {
				t.Errorf("make = %s", sent.Vehicle.Make)
			}

			return httpResp(201, `{"id":"stock-abc123"}`), nil
		},
	}

	svc := NewSubmitService(dispatcher, "https://api.example.com")
	stockID, err := svc.Submit(context.Background(), 1, "10028", "tok", testPayload())
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if stockID != "stock-abc123" {
		t.Errorf("stockID = %s", stockID)
	}
}

func TestSubmitService_NeverUsesRetryingChannel(t *testing.T) {
	dispatcher := &mockDispatcher{
		sendFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			t.Error("刊登提交不能走带重试的发送通道")
			return httpResp(200, `{"id":"x"}`), nil
		},
		sendOnceFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			return httpResp(201, `{"id":"stock-once"}`), nil
		},
	}

	svc := NewSubmitService(dispatcher, "https://api.example.com")
	stockID, err := svc.Submit(context.Background(), 1, "10028", "tok", testPayload())
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if stockID != "stock-once" {
		t.Errorf("stockID = %s", stockID)
	}
}

func TestSubmitService_StockIdVariant(t *testing.T) {
	dispatcher := &mockDispatcher{
		sendOnceFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			return httpResp(200, `{"stockId":"stock-xyz"}`), nil
		},
	}

	svc := NewSubmitService(dispatcher, "https://api.example.com")
	stockID, err := svc.Submit(context.Background(), 1, "10028", "tok", testPayload())
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if stockID != "stock-xyz" {
		t.Errorf("stockID = %s", stockID)
	}
}

func TestSubmitService_UpstreamRejection(t *testing.T) {
	upstreamBody := `{"message":"Invalid engine data","details":["engineCapacityCC out of range"]}`
	dispatcher := &mockDispatcher{
		sendOnceFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			return httpResp(422, upstreamBody), nil
		},
	}

	svc := NewSubmitService(dispatcher, "https://api.example.com")
	_, err := svc.Submit(context.Background(), 1, "10028", "tok", testPayload())

	se := AsStockError(err)
	if se.Kind != ErrServer {
		t.Errorf("kind = %s, want %s", se.Kind, ErrServer)
	}
	if se.Message != "Invalid engine data" {
		t.Errorf("message = %s", se.Message)
	}
	// 上游响应体必须原样保留
	if se.UpstreamBody != upstreamBody {
		t.Errorf("upstreamBody = %s", se.UpstreamBody)
	}
}

func TestSubmitService_NonJSONRejection(t *testing.T) {
	dispatcher := &mockDispatcher{
		sendOnceFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			return httpResp(502, `Bad Gateway`), nil
		},
	}

	svc := NewSubmitService(dispatcher, "https://api.example.com")
	_, err := svc.Submit(context.Background(), 1, "10028", "tok", testPayload())

	se := AsStockError(err)
	if se.Message != "Bad Gateway" {
		t.Errorf("message = %s", se.Message)
	}
	if se.UpstreamBody != "Bad Gateway" {
		t.Errorf("upstreamBody = %s", se.UpstreamBody)
	}
}

func TestSubmitService_MissingIdentifier(t *testing.T) {
	dispatcher := &mockDispatcher{
		sendOnceFn: func(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
			return httpResp(200, `{}`), nil
		},
	}

	svc := NewSubmitService(dispatcher, "https://api.example.com")
	_, err := svc.Submit(context.Background(), 1, "10028", "tok", testPayload())
	if err == nil {
		t.Fatal("响应缺标识应报错")
	}
}
