package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for the HTTP gateway
type Config struct {
	// BaseURL is the server root, e.g. "https://game.example.com/api"
	BaseURL string

	// HTTPClient is optional; a default client is used when nil. Call
	// timeouts are governed by the caller's context, not the client.
	HTTPClient *http.Client
}

// httpGateway implements ServerGateway against the room REST API
type httpGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates an HTTP-backed server gateway
func NewHTTP(cfg *Config) (*httpGateway, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &httpGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

// GetGameState fetches the authoritative session state for a room
func (g *httpGateway) GetGameState(ctx context.Context, input *GetGameStateInput) (*GetGameStateOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	var out GetGameStateOutput
	err := g.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%s/game-state", input.RoomID), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RollDice asks the server to roll for the active player
func (g *httpGateway) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	var out RollDiceOutput
	err := g.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%s/roll", input.RoomID), input, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Move advances the active player's token
func (g *httpGateway) Move(ctx context.Context, input *MoveInput) (*MoveOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	var out MoveOutput
	err := g.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%s/move", input.RoomID), input, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// EndTurn passes the turn to the next player
func (g *httpGateway) EndTurn(ctx context.Context, input *EndTurnInput) (*EndTurnOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	var out EndTurnOutput
	err := g.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%s/end-turn", input.RoomID), struct{}{}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one JSON request and decodes the response into out.
func (g *httpGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError converts a non-2xx response into a *StatusError,
// extracting the server's error message and Retry-After hint.
func statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}

	if resp.StatusCode == http.StatusTooManyRequests {
		if raw := resp.Header.Get("Retry-After"); raw != "" {
			if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
				se.RetryAfter = time.Duration(seconds) * time.Second
			}
		}
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		se.Message = payload.Error
		if se.Message == "" {
			se.Message = payload.Message
		}
	}

	return se
}
