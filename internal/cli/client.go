package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"label-scanner/internal/database"
	"label-scanner/internal/ocr"
	"label-scanner/internal/parser"
)

// Client represents an HTTP client for the label scanner API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with the default timeout
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, 120*time.Second)
}

// NewClientWithTimeout creates a new API client. Scans can take a while
// when OCR runs on large photos, so the timeout is generous by default.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError represents an error from the API
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// TextMatchResult is the server's analysis of directly submitted text.
type TextMatchResult struct {
	RecipientName string                  `json:"recipient_name"`
	Apartment     string                  `json:"apartment"`
	Matches       []parser.MatchCandidate `json:"matches"`
}

// HealthStatus is the server health report.
type HealthStatus struct {
	Status   string   `json:"status"`
	Database string   `json:"database"`
	OCR      ocr.Info `json:"ocr"`
	Message  string   `json:"message,omitempty"`
}

// doRequest performs an HTTP request and handles errors
func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

// do sends a prepared request and converts non-2xx responses to APIError
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()

		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{
			Code:    resp.StatusCode,
			Message: strings.TrimSpace(string(message)),
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return nil, apiErr
	}

	return resp, nil
}

// HealthCheck checks if the API server is reachable
func (c *Client) HealthCheck() error {
	resp, err := c.doRequest("GET", "/api/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// GetHealth returns the full server health report
func (c *Client) GetHealth() (*HealthStatus, error) {
	resp, err := c.doRequest("GET", "/api/health", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &status, nil
}

// CreateScan uploads a label image for scanning
func (c *Client) CreateScan(imagePath string) (*database.Scan, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/scans", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var scan database.Scan
	if err := json.NewDecoder(resp.Body).Decode(&scan); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &scan, nil
}

// GetScans returns scan history, newest first. A limit of 0 means all.
func (c *Client) GetScans(limit int) ([]database.Scan, error) {
	path := "/api/scans"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var scans []database.Scan
	if err := json.NewDecoder(resp.Body).Decode(&scans); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return scans, nil
}

// GetScan returns a specific scan by ID
func (c *Client) GetScan(id int) (*database.Scan, error) {
	resp, err := c.doRequest("GET", "/api/scans/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var scan database.Scan
	if err := json.NewDecoder(resp.Body).Decode(&scan); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &scan, nil
}

// DeleteScan deletes a scan
func (c *Client) DeleteScan(id int) error {
	resp, err := c.doRequest("DELETE", "/api/scans/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// RescanScan reruns OCR and matching on a stored scan
func (c *Client) RescanScan(id int, force bool) (*database.Scan, error) {
	path := "/api/scans/" + strconv.Itoa(id) + "/rescan"
	if force {
		path += "?force=true"
	}

	resp, err := c.doRequest("POST", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var scan database.Scan
	if err := json.NewDecoder(resp.Body).Decode(&scan); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &scan, nil
}

// MatchText runs field extraction and recipient matching on raw text
func (c *Client) MatchText(text string) (*TextMatchResult, error) {
	resp, err := c.doRequest("POST", "/api/scans/text", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result TextMatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// GetRecipients returns the recipient directory
func (c *Client) GetRecipients() ([]database.Recipient, error) {
	resp, err := c.doRequest("GET", "/api/recipients", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var recipients []database.Recipient
	if err := json.NewDecoder(resp.Body).Decode(&recipients); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return recipients, nil
}

// MatchRecipients ranks directory entries against a query string
func (c *Client) MatchRecipients(query string) ([]parser.MatchCandidate, error) {
	resp, err := c.doRequest("GET", "/api/recipients/matches?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var candidates []parser.MatchCandidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return candidates, nil
}
