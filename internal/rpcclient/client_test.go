package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// echoServer answers every call with handler(method, params).
func echoServer(t *testing.T, handler func(method string, params json.RawMessage) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
			ID     uint64          `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Call(t *testing.T) {
	srv := echoServer(t, func(method string, params json.RawMessage) (interface{}, *rpcError) {
		if method != "chain_getInfo" {
			t.Errorf("method = %q, want chain_getInfo", method)
		}
		return map[string]uint64{"height": 42}, nil
	})

	var info struct {
		Height uint64 `json:"height"`
	}
	if err := New(srv.URL).Call("chain_getInfo", nil, &info); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if info.Height != 42 {
		t.Errorf("Height = %d, want 42", info.Height)
	}
}

func TestClient_Call_Params(t *testing.T) {
	srv := echoServer(t, func(_ string, params json.RawMessage) (interface{}, *rpcError) {
		var p struct {
			AccountID string `json:"account_id"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			t.Errorf("params: %v", err)
		}
		return p.AccountID, nil
	})

	var got string
	err := New(srv.URL).Call("get_account", map[string]string{"account_id": "abc"}, &got)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got != "abc" {
		t.Errorf("result = %q, want abc", got)
	}
}

func TestClient_Call_NilResult(t *testing.T) {
	srv := echoServer(t, func(string, json.RawMessage) (interface{}, *rpcError) {
		return "ignored", nil
	})
	if err := New(srv.URL).Call("version", nil, nil); err != nil {
		t.Fatalf("Call() error: %v", err)
	}
}

func TestClient_Call_MethodNotFound(t *testing.T) {
	srv := echoServer(t, func(string, json.RawMessage) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})

	err := New(srv.URL).Call("nonexistent_method", nil, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != -32601 {
		t.Errorf("Code = %d, want -32601", rpcErr.Code)
	}
}

func TestClient_Call_InvalidEndpoint(t *testing.T) {
	c := NewWithTimeout("http://127.0.0.1:1", 500*time.Millisecond)
	if err := c.Call("chain_getInfo", nil, nil); err == nil {
		t.Error("expected error for unreachable endpoint")
	}
}

func TestClient_CallContext_Cancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := New(srv.URL).CallContext(ctx, "chain_getInfo", nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestClient_RequestIDsIncrease(t *testing.T) {
	var ids []uint64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID uint64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ID)
		json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	for i := 0; i < 3; i++ {
		if err := c.Call("version", nil, nil); err != nil {
			t.Fatalf("Call() error: %v", err)
		}
	}
	if len(ids) != 3 || ids[0] >= ids[1] || ids[1] >= ids[2] {
		t.Errorf("ids = %v, want strictly increasing", ids)
	}
}
