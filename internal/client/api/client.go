// Package api implements the HTTP client for the auction server's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized is returned by Login when the credentials are not accepted.
var ErrUnauthorized = errors.New("invalid credentials")

// Bidder is the authenticated identity returned by Login.
type Bidder struct {
	ID       int64  `json:"bidderId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Vehicle mirrors the server's vehicle representation.
type Vehicle struct {
	ID          int64   `json:"vehicle_id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	StartingBid float64 `json:"starting_bid"`
	HighestBid  float64 `json:"highest_bid"`
}

type Client struct {
	base string
	http *http.Client
}

func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) (int, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error == "" {
			er.Error = resp.Status
		}
		return resp.StatusCode, errors.New(er.Error)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, path string, respBody any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error == "" {
			er.Error = resp.Status
		}
		return errors.New(er.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, username, password, email string) error {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}{username, password, email}

	_, err := c.post(ctx, "/v1/auth/register", body, nil)
	return err
}

func (c *Client) Login(ctx context.Context, username, password string) (*Bidder, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var bidder Bidder
	status, err := c.post(ctx, "/v1/auth/login", body, &bidder)
	if err != nil {
		if status == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return &bidder, nil
}

// Vehicles lists the auction inventory. The second return value reports
// whether the server answered from its degraded fallback data.
func (c *Client) Vehicles(ctx context.Context) ([]Vehicle, bool, error) {
	var resp struct {
		Vehicles []Vehicle `json:"vehicles"`
		Degraded bool      `json:"degraded"`
	}
	if err := c.get(ctx, "/v1/vehicles", &resp); err != nil {
		return nil, false, err
	}
	return resp.Vehicles, resp.Degraded, nil
}

func (c *Client) HighestBid(ctx context.Context, vehicleID int64) (float64, bool, error) {
	var resp struct {
		VehicleID  int64   `json:"vehicleId"`
		HighestBid float64 `json:"highestBid"`
		Degraded   bool    `json:"degraded"`
	}
	if err := c.get(ctx, fmt.Sprintf("/v1/vehicles/%d/highest-bid", vehicleID), &resp); err != nil {
		return 0, false, err
	}
	return resp.HighestBid, resp.Degraded, nil
}

func (c *Client) PlaceBid(ctx context.Context, bidderID, vehicleID int64, amount float64) (string, error) {
	body := struct {
		BidderID  int64   `json:"bidderId"`
		VehicleID int64   `json:"vehicleId"`
		Amount    float64 `json:"amount"`
	}{bidderID, vehicleID, amount}

	var resp struct {
		Receipt string `json:"receipt"`
	}
	if _, err := c.post(ctx, "/v1/bids", body, &resp); err != nil {
		return "", err
	}
	return resp.Receipt, nil
}
