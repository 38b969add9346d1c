package userclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client 用户服务客户端
// 只承担用户存在性检查，身份数据归属远端用户服务
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建用户服务客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckUserExists 检查用户是否存在
// 200 为存在，404 为不存在，其余情况一律按未知（error）返回
func (c *Client) CheckUserExists(ctx context.Context, userID string) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/user/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build user existence request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check user existence: unexpected status %d", resp.StatusCode)
	}
}
