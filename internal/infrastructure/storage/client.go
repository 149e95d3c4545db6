package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrObjectNotFound возвращается при удалении несуществующего объекта
var ErrObjectNotFound = errors.New("storage object not found")

// Client - интерфейс объектного хранилища для изображений и QR кодов
type Client interface {
	// Upload сохраняет объект по пути path и возвращает публичную ссылку на скачивание
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)

	// Delete удаляет объект по ссылке, которую вернул Upload
	Delete(ctx context.Context, downloadURL string) error
}

// uploadResponse - ответ Firebase Storage на загрузку
type uploadResponse struct {
	Name           string `json:"name"`
	Bucket         string `json:"bucket"`
	DownloadTokens string `json:"downloadTokens"`
}

// statusError - ответ хранилища с неуспешным кодом
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("storage returned status %d: %s", e.code, e.body)
}

// httpClient - REST клиент Firebase Storage (v0 API)
type httpClient struct {
	baseURL    string
	bucket     string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewHTTPClient создает клиент. token пустой - запросы без авторизации (эмулятор)
func NewHTTPClient(baseURL, bucket, token string, timeout time.Duration) Client {
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		token:      token,
		maxRetries: 3,
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

// Upload загружает объект с повторами при сетевых ошибках и 5xx
func (c *httpClient) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v0/b/%s/o?uploadType=media&name=%s",
		c.baseURL, c.bucket, url.QueryEscape(path))

	var body []byte
	err := c.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)

		body, err = c.do(req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal upload response: %w", err)
	}
	if resp.Name == "" {
		resp.Name = path
	}

	return c.downloadURL(resp.Name, resp.DownloadTokens), nil
}

// Delete удаляет объект по ссылке на скачивание
func (c *httpClient) Delete(ctx context.Context, downloadURL string) error {
	path, err := ObjectPath(downloadURL)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v0/b/%s/o/%s", c.baseURL, c.bucket, url.PathEscape(path))

	err = c.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		_, err = c.do(req)
		return err
	})

	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (c *httpClient) downloadURL(name, token string) string {
	u := fmt.Sprintf("%s/v0/b/%s/o/%s?alt=media", c.baseURL, c.bucket, url.PathEscape(name))
	if token != "" {
		u += "&token=" + url.QueryEscape(token)
	}
	return u
}

// withRetry повторяет fn с линейной задержкой
func (c *httpClient) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 200 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fn()
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// do выполняет запрос и возвращает тело успешного ответа
func (c *httpClient) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	return body, nil
}

// isRetryable - повторяем сетевые ошибки и 5xx, 4xx считаем окончательными
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// ObjectPath достает путь объекта из ссылки вида .../o/{escaped path}?alt=media
func ObjectPath(downloadURL string) (string, error) {
	u, err := url.Parse(downloadURL)
	if err != nil {
		return "", fmt.Errorf("invalid storage url: %w", err)
	}

	escaped := u.EscapedPath()
	idx := strings.LastIndex(escaped, "/o/")
	if idx < 0 {
		return "", fmt.Errorf("invalid storage url: %q", downloadURL)
	}

	path, err := url.PathUnescape(escaped[idx+len("/o/"):])
	if err != nil || path == "" {
		return "", fmt.Errorf("invalid storage url: %q", downloadURL)
	}
	return path, nil
}
