package fileclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client 文件服务客户端
// 承担附件/缩略图的存在性检查和远端删除
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建文件服务客户端
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

// CheckFileExists 检查文件是否存在
// 2xx 为存在，404 为不存在，其余情况一律按未知（error）返回
func (c *Client) CheckFileExists(ctx context.Context, fileID string) (bool, error) {
	url := fmt.Sprintf("%s/api/file/information/%s", c.baseURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build file existence request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("check file existence: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check file existence: unexpected status %d", resp.StatusCode)
	}
}

// DeleteFile 删除远端文件，404 视为已删除
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	url := fmt.Sprintf("%s/api/file/%s", c.baseURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build file delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if (resp.StatusCode >= 200 && resp.StatusCode < 300) || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("delete file: unexpected status %d", resp.StatusCode)
}
