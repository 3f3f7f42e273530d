package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/models"
)

// homeCourtBump is added to pre-game home probabilities on non-neutral
// courts, clamped away from certainty.
const homeCourtBump = 0.03

// Client calls the external win-probability model service. A nil Client or
// an empty base URL means no predictor is configured.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a predictor client. baseURL may be empty to disable
// predictions.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Enabled reports whether a model service is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type predictResponse struct {
	Probability float64 `json:"probability"`
}

// Predict posts the feature vector to the model service and returns the home
// team's win probability. ok is false when no predictor is configured.
func (c *Client) Predict(ctx context.Context, features Features) (float64, bool, error) {
	if !c.Enabled() {
		return 0, false, nil
	}

	body, err := json.Marshal(features)
	if err != nil {
		return 0, false, fmt.Errorf("encoding features: %w", err)
	}

	url := c.baseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("calling predictor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("predictor returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, false, fmt.Errorf("decoding predictor response: %w", err)
	}
	if out.Probability < 0 || out.Probability > 1 {
		return 0, false, fmt.Errorf("predictor returned probability out of range: %f", out.Probability)
	}
	return out.Probability, true, nil
}

// WinProbability computes the home team's win probability for a game.
// Finished games resolve to 0 or 1 without calling the model. ok is false
// when the predictor is unavailable or fails; that is not an error
// condition for callers.
func (c *Client) WinProbability(ctx context.Context, game models.Game, pbp *models.PlayByPlay) (float64, bool) {
	if game.Status == models.StatusPost {
		if game.Home.Score > game.Away.Score {
			return 1, true
		}
		return 0, true
	}

	features := DeriveFeatures(game, pbp)
	prob, ok, err := c.Predict(ctx, features)
	if err != nil {
		log.Warn().Err(err).Str("game_id", game.ID).Msg("Predictor call failed")
		return 0, false
	}
	if !ok {
		return 0, false
	}

	if game.Status == models.StatusPre && !game.NeutralSite {
		prob = math.Min(0.95, math.Max(0.05, prob+homeCourtBump))
	}
	return prob, true
}
