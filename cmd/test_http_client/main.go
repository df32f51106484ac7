package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	BaseURL     = "http://localhost:8080"
	TotalCount  = 10000
	Concurrency = 100
	// 每筆入金 1.00
	Amount = "1.00"
)

type movementRequest struct {
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	ReferenceID string `json:"reference_id"`
}

func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	// 先建立一個測試帳戶
	accountID, err := createAccount(client, "load-test")
	if err != nil {
		log.Fatalf("create account failed: %v", err)
	}
	log.Printf("Created account %s", accountID)

	totalCount := TotalCount
	concurrency := Concurrency

	var wg sync.WaitGroup
	wg.Add(totalCount)

	sem := make(chan struct{}, concurrency)

	startTime := time.Now()

	for i := 0; i < totalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			refID := uuid.New().String()
			if err := topUp(client, accountID, refID); err != nil {
				if idx%1000 == 0 {
					log.Printf("TopUp %d failed: %v", idx, err)
				}
			}
		}(i)
	}

	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v\n", totalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(totalCount)/elapsed.Seconds())

	// 驗算最終餘額: totalCount * 1.00
	balance, err := getBalance(client, accountID)
	if err != nil {
		log.Fatalf("get account failed: %v", err)
	}
	fmt.Printf("Final balance: %s (expected %d.00)\n", balance, totalCount)
}

func createAccount(client *http.Client, name string) (string, error) {
	body, _ := json.Marshal(map[string]string{"name": name})
	resp, err := client.Post(BaseURL+"/api/accounts", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	var account struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", err
	}
	return account.ID, nil
}

func topUp(client *http.Client, accountID, refID string) error {
	body, _ := json.Marshal(movementRequest{
		AccountID:   accountID,
		Amount:      Amount,
		ReferenceID: refID,
	})
	resp, err := client.Post(BaseURL+"/api/accounts/top-up", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func getBalance(client *http.Client, accountID string) (string, error) {
	resp, err := client.Get(BaseURL + "/api/accounts/" + accountID)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var account struct {
		Balance string `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", err
	}
	return account.Balance, nil
}
