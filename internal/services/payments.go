package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const razorpayOrdersURL = "https://api.razorpay.com/v1/orders"

// PaymentService is a thin wrapper around the Razorpay orders API. It
// returns the gateway's order object untouched.
type PaymentService struct {
	KeyID     string
	KeySecret string
	OrdersURL string
	Client    *http.Client
}

func NewPaymentService(keyID, keySecret string) *PaymentService {
	return &PaymentService{
		KeyID:     keyID,
		KeySecret: keySecret,
		OrdersURL: razorpayOrdersURL,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder creates a gateway order. Amount is in the currency's smallest
// unit, as Razorpay expects.
func (s *PaymentService) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (map[string]interface{}, error) {
	if s.KeyID == "" || s.KeySecret == "" {
		return nil, fmt.Errorf("payment gateway keys are not configured")
	}
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.OrdersURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.KeyID, s.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var order map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return order, nil
}
