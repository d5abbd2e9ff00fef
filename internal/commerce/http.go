package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/quotes-tracker/internal/common"
)

// getJSON performs an authenticated GET and decodes a 2xx body into out.
// It returns the status code; non-2xx responses are ErrRemote errors.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	reqID := uuid.New().String()
	start := time.Now()

	u := endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.log.Error("commerce.http.build_request_error", "req_id", reqID, "error", err)
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" && c.appPassword != "" {
		req.SetBasicAuth(c.username, c.appPassword)
	}

	c.log.Debug("commerce.http.request", "req_id", reqID, "url", endpoint, "params", params.Encode())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("commerce.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return 0, common.NewAppError(common.CodeRemote, "send request", fmt.Errorf("%w: %v", common.ErrRemote, err))
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("commerce.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	c.log.Debug("commerce.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return resp.StatusCode, common.NewAppError(common.CodeRemote,
			fmt.Sprintf("GET %s: non-2xx status: %d", endpoint, resp.StatusCode), common.ErrRemote)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return resp.StatusCode, nil
}

// paginate fetches page after page until one comes back empty.
func paginate[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("per_page", fmt.Sprint(c.perPage))

	var all []T
	for page := 1; ; page++ {
		params.Set("page", fmt.Sprint(page))
		var batch []T
		if _, err := c.getJSON(ctx, endpoint, params, &batch); err != nil {
			return all, fmt.Errorf("page %d: %w", page, err)
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}
