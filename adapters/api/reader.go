package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"chartsense/domain/dataset"
	"chartsense/internal"
	"chartsense/internal/errors"

	"github.com/tidwall/gjson"
)

// JSONSource loads rows from a JSON REST endpoint
type JSONSource struct {
	config     SourceConfig
	httpClient *http.Client
	logger     *internal.Logger
}

// NewJSONSource creates a row source for an endpoint
func NewJSONSource(config SourceConfig) (*JSONSource, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source config: %w", err)
	}
	return &JSONSource{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: internal.DefaultLogger.WithComponent("JSONSource"),
	}, nil
}

// Name identifies the source in logs and reports
func (s *JSONSource) Name() string {
	if s.config.Name != "" {
		return s.config.Name
	}
	return s.config.BaseURL
}

// Load fetches every configured page and flattens the located records
// into a table. Column order follows first appearance in the response.
func (s *JSONSource) Load(ctx context.Context) (dataset.Table, error) {
	table := dataset.Table{}
	seen := make(map[string]bool)
	cursor := ""

	for page := 0; page < s.maxPages(); page++ {
		body, err := s.fetch(ctx, s.buildURL(cursor, page))
		if err != nil {
			return dataset.Table{}, err
		}

		records, err := s.locate(body)
		if err != nil {
			return dataset.Table{}, err
		}

		for _, record := range records {
			row := make(dataset.Row)
			record.ForEach(func(key, value gjson.Result) bool {
				name := key.String()
				if !seen[name] {
					seen[name] = true
					table.Columns = append(table.Columns, name)
				}
				row[name] = cellValue(value)
				return true
			})
			table.Rows = append(table.Rows, row)
		}

		if s.config.MaxRows > 0 && table.Len() >= s.config.MaxRows {
			table = table.Head(s.config.MaxRows)
			break
		}
		if len(records) == 0 || len(records) < s.config.PageSize {
			break
		}
		if s.config.PaginationType == "cursor" {
			cursor = extractNextCursor(body)
			if cursor == "" {
				break
			}
		}
	}

	s.logger.Info("%s loaded (%d columns, %d rows)", s.Name(), len(table.Columns), table.Len())
	return table, nil
}

func (s *JSONSource) maxPages() int {
	switch s.config.PaginationType {
	case "offset", "page", "cursor":
		return s.config.MaxPages
	}
	return 1
}

// buildURL constructs the request URL with pagination parameters
func (s *JSONSource) buildURL(cursor string, page int) string {
	u, err := url.Parse(s.config.BaseURL)
	if err != nil {
		return s.config.BaseURL
	}
	params := u.Query()

	switch s.config.PaginationType {
	case "offset":
		params.Set("offset", strconv.Itoa(page*s.config.PageSize))
		params.Set("limit", strconv.Itoa(s.config.PageSize))
	case "page":
		params.Set("page", strconv.Itoa(page+1))
		params.Set("per_page", strconv.Itoa(s.config.PageSize))
	case "cursor":
		if cursor != "" {
			params.Set("cursor", cursor)
		}
	}

	u.RawQuery = params.Encode()
	return u.String()
}

func (s *JSONSource) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := s.buildRequest(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError(s.Name(), fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	limit := s.config.bodyLimit()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, errors.ExternalServiceError(s.Name(), fmt.Errorf("response exceeds %d bytes", limit))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.ExternalServiceError(s.Name(),
			fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response from %s is not valid JSON", s.Name())
	}
	return body, nil
}

// buildRequest creates an HTTP request with authentication
func (s *JSONSource) buildRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}

	switch s.config.AuthMethod {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+s.config.AuthToken)
	case "api_key":
		req.Header.Set("X-API-Key", s.config.AuthToken)
	case "basic":
		req.SetBasicAuth(s.config.Username, s.config.Password)
	}

	return req, nil
}

// locate extracts the record objects at the configured data path. A single
// object is treated as one record.
func (s *JSONSource) locate(body []byte) ([]gjson.Result, error) {
	dataPath := s.config.DataPath
	if dataPath == "" {
		dataPath = "@this"
	}

	result := gjson.GetBytes(body, dataPath)
	if !result.Exists() {
		return nil, fmt.Errorf("data path '%s' not found in response", dataPath)
	}

	switch {
	case result.IsArray():
		var records []gjson.Result
		for _, item := range result.Array() {
			if !item.IsObject() {
				return nil, fmt.Errorf("data path '%s' holds a non-object element", dataPath)
			}
			records = append(records, item)
		}
		return records, nil
	case result.IsObject():
		return []gjson.Result{result}, nil
	default:
		return nil, fmt.Errorf("data path '%s' is not an array or object", dataPath)
	}
}

// cellValue maps a JSON value onto the raw value types rows carry. Nested
// objects and arrays are kept as their JSON text.
func cellValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}

// extractNextCursor extracts cursor for next page
func extractNextCursor(body []byte) string {
	cursorFields := []string{"next_cursor", "cursor", "next", "continuation_token"}

	for _, field := range cursorFields {
		if cursor := gjson.GetBytes(body, field); cursor.Exists() && cursor.String() != "" {
			return cursor.String()
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
