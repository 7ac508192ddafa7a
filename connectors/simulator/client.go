package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/refinelab/feedplan/core/model"
	"github.com/refinelab/feedplan/infra/logger"
)

// Config defines the connection parameters for the simulation service.
type Config struct {
	BaseURL string `json:"base_url"`
	// APIKey is sent as X-API-Key on every request when set.
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// PollIntervalSeconds re-runs the plan periodically when > 0 and no MQTT
	// notifier is configured.
	PollIntervalSeconds int          `json:"poll_interval_seconds"`
	Notify              NotifyConfig `json:"notify"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}

// Client talks to the remote simulation/optimization service. The service is
// a black box: it accepts a plan parameter form and returns the three feeds
// the reconciliation engine consumes.
type Client struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewClient creates a simulation service client.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    logger.New("simulator-client"),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}
	return req, nil
}

// Simulate posts the plan form to /api/simulate and decodes the run result.
// A non-200 status or success=false is an error: validating the feeds before
// reconciliation is the caller's job, the engine has no fatal path of its own.
func (c *Client) Simulate(ctx context.Context, plan map[string]any) (*model.SimulationResult, error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/simulate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("simulate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var res model.SimulationResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if !res.Success {
		if res.Error != "" {
			return nil, fmt.Errorf("simulation failed: %s", res.Error)
		}
		return nil, fmt.Errorf("simulation failed")
	}
	return &res, nil
}

// SaveInputs persists the plan form on the remote service. The call is
// best-effort; callers should log failures and rely on the local store.
func (c *Client) SaveInputs(ctx context.Context, plan map[string]any) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/save_inputs", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("save inputs: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	return nil
}

// LoadInputs retrieves the plan form stored on the remote service. An empty
// object means the service holds no inputs.
func (c *Client) LoadInputs(ctx context.Context) (map[string]any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/load_inputs", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var plan map[string]any
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("decode inputs: %w", err)
	}
	return plan, nil
}
