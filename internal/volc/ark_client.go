package volc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"coloringbook/internal/config"
)

const (
	defaultBase  = "https://ark.cn-beijing.volces.com"
	defaultModel = "doubao-seedream-4.0"
	defaultSize  = "1024x1024"

	imagesPath = "/api/v3/images/generations"

	// 1x1 PNG pixel base64
	mockPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMAASsJTYQAAAAASUVORK5CYII="
)

// ErrNoImages 服务端返回成功但没有任何图片
var ErrNoImages = errors.New("no images returned")

type ArkClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Size    string
	// ResponseFormat 为空时由服务端决定，通常为 url
	ResponseFormat string
	HTTPClient     *http.Client
	Mock           bool
}

// NewArkClient 根据图片服务配置创建客户端
// 超时由调用方通过 context 控制，HTTPClient 不再设置整体超时
func NewArkClient(cfg config.ImageConfig) *ArkClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBase
	}
	return &ArkClient{
		BaseURL:        base,
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Size:           cfg.Size,
		ResponseFormat: cfg.ResponseFormat,
		HTTPClient:     &http.Client{},
		Mock:           cfg.Mock,
	}
}

type ImageGenParams struct {
	Prompt string
	// Watermark 为 nil 时不传，沿用服务端默认（带水印）
	Watermark *bool
}

// APIError 图片服务返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("http %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// IsBillingError 是否为欠费或额度耗尽，此类错误重试无意义
func IsBillingError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusPaymentRequired {
		return true
	}
	code := strings.ToLower(apiErr.Code)
	return strings.Contains(code, "overdue") ||
		strings.Contains(code, "insufficient_quota") ||
		strings.Contains(code, "accountbalance")
}

func (c *ArkClient) GenerateImages(ctx context.Context, p ImageGenParams) ([]string, error) {
	if c.Mock {
		return []string{"data:image/png;base64," + mockPixel}, nil
	}
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	size := c.Size
	if size == "" {
		size = defaultSize
	}
	body := map[string]any{
		"model":  model,
		"prompt": p.Prompt,
		"size":   size,
	}
	if c.ResponseFormat != "" {
		body["response_format"] = c.ResponseFormat
	}
	if p.Watermark != nil {
		body["watermark"] = *p.Watermark
	}

	var resp struct {
		Data []struct {
			URL    string `json:"url"`
			B64    string `json:"b64_json"`
			Format string `json:"format"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, imagesPath, body, &resp); err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.URL != "" {
			urls = append(urls, d.URL)
			continue
		}
		if d.B64 != "" {
			fmtType := d.Format
			if fmtType == "" {
				fmtType = "png"
			}
			urls = append(urls, "data:image/"+fmtType+";base64,"+d.B64)
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoImages
	}
	return urls, nil
}

func (c *ArkClient) postJSON(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	logrus.WithField("url", req.URL.String()).Debug("ark request")

	start := time.Now()
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"status":  res.StatusCode,
		"latency": time.Since(start),
	}).Debug("ark response")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return parseAPIError(res.StatusCode, bodyBytes)
	}
	return json.Unmarshal(bodyBytes, out)
}

// parseAPIError 解析 {"error":{"code":"...","message":"..."}}，解析失败时保留原始响应体
func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Error.Code != "" || payload.Error.Message != "") {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
