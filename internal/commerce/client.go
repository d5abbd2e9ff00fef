// Package commerce reads customers and orders from a WooCommerce shop.
package commerce

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
)

const (
	wpPath = "/wp-json/wp/v2"
	wcPath = "/wp-json/wc/v3"
)

// Client is a read-only WooCommerce REST client.
type Client struct {
	baseURL     string
	username    string
	appPassword string
	perPage     int

	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewClient validates cfg and builds a client. A non-positive RPS disables pacing.
func NewClient(cfg common.CommerceConfig, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := common.NewValidator().Field("base_url", cfg.BaseURL, common.Required, common.HTTPURL)
	if v.HasErrors() {
		return nil, common.NewAppError(common.CodeConfig, v.ErrorMessage(), common.ErrInvalidInput)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		perPage:     perPage,
		http:        httpClient,
		limiter:     rate.NewLimiter(limit, 1),
		log:         logger,
	}, nil
}

// Ping checks that the WordPress REST root answers.
func (c *Client) Ping(ctx context.Context) error {
	var root map[string]any
	if _, err := c.getJSON(ctx, c.baseURL+wpPath, nil, &root); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
