package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func rpcResult(t *testing.T, w http.ResponseWriter, id uint64, result string) {
	t.Helper()
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, id, result)
}

func decodeRequest(t *testing.T, r *http.Request) rpcRequest {
	t.Helper()
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("Failed to decode request: %v", err)
	}
	return req
}

func TestGetTokenAccountsByMint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.Method != "getTokenAccountsByMint" {
			t.Errorf("Expected method getTokenAccountsByMint, got %s", req.Method)
		}
		if req.Params[0] != "TestMint" {
			t.Errorf("Expected mint TestMint, got %v", req.Params[0])
		}
		cfg, ok := req.Params[1].(map[string]interface{})
		if !ok || cfg["encoding"] != "jsonParsed" {
			t.Errorf("Expected jsonParsed encoding, got %v", req.Params[1])
		}

		rpcResult(t, w, req.ID, `{"value":[
			{"pubkey":"acct1","account":{"data":{"parsed":{"info":{"owner":"walletA","tokenAmount":{"uiAmount":1000.5}}}}}},
			{"pubkey":"acct2","account":{"data":{"parsed":{"info":{"owner":"walletB","tokenAmount":{"uiAmount":null}}}}}}
		]}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	accounts, err := client.GetTokenAccountsByMint(context.Background(), "TestMint")
	if err != nil {
		t.Fatalf("GetTokenAccountsByMint failed: %v", err)
	}

	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Owner != "walletA" || accounts[0].UIAmount == nil || *accounts[0].UIAmount != 1000.5 {
		t.Errorf("First account parsed wrong: %+v", accounts[0])
	}
	if accounts[1].Owner != "walletB" || accounts[1].UIAmount != nil {
		t.Errorf("Null uiAmount should stay nil: %+v", accounts[1])
	}
}

func TestGetTokenBalance_SumsAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.Method != "getTokenAccountsByOwner" {
			t.Errorf("Expected method getTokenAccountsByOwner, got %s", req.Method)
		}
		rpcResult(t, w, req.ID, `{"value":[
			{"pubkey":"acct1","account":{"data":{"parsed":{"info":{"owner":"me","tokenAmount":{"uiAmount":1.5}}}}}},
			{"pubkey":"acct2","account":{"data":{"parsed":{"info":{"owner":"me","tokenAmount":{"uiAmount":0.25}}}}}}
		]}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	balance, err := client.GetTokenBalance(context.Background(), "me", "TestMint")
	if err != nil {
		t.Fatalf("GetTokenBalance failed: %v", err)
	}
	if balance != 1.75 {
		t.Errorf("Expected balance 1.75, got %g", balance)
	}
}

func TestGetBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		rpcResult(t, w, req.ID, `{"value":2039280}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	lamports, err := client.GetBalance(context.Background(), "somePubkey")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if lamports != 2039280 {
		t.Errorf("Expected 2039280 lamports, got %d", lamports)
	}
}

func TestGetLatestBlockhash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		rpcResult(t, w, req.ID, `{"value":{"blockhash":"FakeHash111","lastValidBlockHeight":12345}}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	bh, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash failed: %v", err)
	}
	if bh.Blockhash != "FakeHash111" {
		t.Errorf("Expected blockhash FakeHash111, got %s", bh.Blockhash)
	}
	if bh.LastValidBlockHeight != 12345 {
		t.Errorf("Expected height 12345, got %d", bh.LastValidBlockHeight)
	}
}

func TestSendTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.Method != "sendTransaction" {
			t.Errorf("Expected method sendTransaction, got %s", req.Method)
		}
		if req.Params[0] != "signedTxBase58" {
			t.Errorf("Expected transaction payload first, got %v", req.Params[0])
		}
		cfg, ok := req.Params[1].(map[string]interface{})
		if !ok {
			t.Fatalf("Expected config map, got %v", req.Params[1])
		}
		if cfg["encoding"] != "base58" {
			t.Errorf("Expected base58 encoding, got %v", cfg["encoding"])
		}
		if cfg["preflightCommitment"] != string(CommitmentConfirmed) {
			t.Errorf("Expected confirmed preflight, got %v", cfg["preflightCommitment"])
		}
		rpcResult(t, w, req.ID, `"5sig111"`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	sig, err := client.SendTransaction(context.Background(), "signedTxBase58", nil)
	if err != nil {
		t.Fatalf("SendTransaction failed: %v", err)
	}
	if sig != "5sig111" {
		t.Errorf("Expected signature 5sig111, got %s", sig)
	}
}

func TestCall_RetriesOn429(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		rpcResult(t, w, req.ID, `{"value":1}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))
	if _, err := client.GetBalance(context.Background(), "pk"); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestCall_DoesNotRetryRPCError(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		req := decodeRequest(t, r)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32602,"message":"invalid params"}}`, req.ID)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))
	_, err := client.GetBalance(context.Background(), "pk")
	if err == nil {
		t.Fatal("Expected RPC error")
	}
	if !strings.Contains(err.Error(), "invalid params") {
		t.Errorf("Expected the RPC message in the error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("RPC errors must not be retried, got %d attempts", calls.Load())
	}
}

func TestCall_MaxRetriesExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(1), WithRetryDelay(time.Millisecond))
	_, err := client.GetBalance(context.Background(), "pk")
	if err == nil {
		t.Fatal("Expected failure after exhausting retries")
	}
	if !strings.Contains(err.Error(), "max retries exceeded") {
		t.Errorf("Expected max retries error, got %v", err)
	}
}
