package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/logging"
)

func newTestServer() *httptest.Server {
	wallet := usecase.NewWalletUseCase(memory.NewMutexLedger())
	server := NewServer(wallet, logging.NewNopLogger())
	return httptest.NewServer(server.Router())
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createTestAccount(t *testing.T, baseURL, name string) string {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/accounts", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var account struct {
		ID      string `json:"id"`
		Balance string `json:"balance"`
	}
	decodeBody(t, resp, &account)
	assert.Equal(t, "0.00", account.Balance)
	return account.ID
}

func TestCreateAndGetAccount(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	id := createTestAccount(t, ts.URL, "Alice")

	resp, err := http.Get(ts.URL + "/api/accounts/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var account struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Balance   string `json:"balance"`
		CreatedAt int64  `json:"created_at"`
	}
	decodeBody(t, resp, &account)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, "Alice", account.Name)
	assert.Equal(t, "0.00", account.Balance)
	assert.NotZero(t, account.CreatedAt)
}

func TestGetAccountNotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/accounts/no-such-account")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "account_not_found", body.Code)
}

func TestCreateAccountInvalidName(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/accounts", map[string]string{"name": ""})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// 完整情境走 HTTP 邊界: 入金 -> 重複 -> 超額 -> 扣款
func TestWalletScenarioOverHTTP(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	id := createTestAccount(t, ts.URL, "Alice")

	// TopUp 50.00
	resp := postJSON(t, ts.URL+"/api/accounts/top-up", map[string]interface{}{
		"account_id": id, "amount": "50.00", "reference_id": "r1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var movement struct {
		AccountID            string `json:"account_id"`
		NewBalance           string `json:"new_balance"`
		TransactionID        string `json:"transaction_id"`
		TransactionReference string `json:"transaction_reference"`
	}
	decodeBody(t, resp, &movement)
	assert.Equal(t, "50.00", movement.NewBalance)
	assert.Equal(t, "r1", movement.TransactionReference)
	firstTxID := movement.TransactionID

	// 相同 reference 再打一次 -> 409，帶先前的 transaction_id
	resp = postJSON(t, ts.URL+"/api/accounts/top-up", map[string]interface{}{
		"account_id": id, "amount": "50.00", "reference_id": "r1",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var conflict struct {
		Code          string `json:"code"`
		TransactionID string `json:"transaction_id"`
	}
	decodeBody(t, resp, &conflict)
	assert.Equal(t, "duplicate_transaction", conflict.Code)
	assert.Equal(t, firstTxID, conflict.TransactionID)

	// 超額扣款 -> 400 insufficient_funds
	resp = postJSON(t, ts.URL+"/api/accounts/charge", map[string]interface{}{
		"account_id": id, "amount": "75.00", "reference_id": "r2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var insufficient struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &insufficient)
	assert.Equal(t, "insufficient_funds", insufficient.Code)

	// Charge 20.00 -> 30.00
	resp = postJSON(t, ts.URL+"/api/accounts/charge", map[string]interface{}{
		"account_id": id, "amount": "20.00", "reference_id": "r3",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &movement)
	assert.Equal(t, "30.00", movement.NewBalance)
}

func TestMovementInvalidAmount(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	id := createTestAccount(t, ts.URL, "Alice")

	// 超過兩位小數
	resp := postJSON(t, ts.URL+"/api/accounts/top-up", map[string]interface{}{
		"account_id": id, "amount": "10.123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "invalid_amount", body.Code)

	// JSON number 也一樣被擋 (json.Number 不經過 float64)
	resp = postJSON(t, ts.URL+"/api/accounts/charge", map[string]interface{}{
		"account_id": id, "amount": -5,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovementMissingAccount(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/accounts/top-up", map[string]interface{}{
		"account_id": "no-such-account", "amount": "10.00",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWelcomeRoute(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Message)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
