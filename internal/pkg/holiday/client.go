package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
)

const userAgent = "Mozilla/5.0 HR-System/1.0"

type lookupResponse struct {
	Code *int `json:"code"`
	Type *struct {
		Type *int   `json:"type"`
		Name string `json:"name"`
	} `json:"type"`
}

// Client queries the public holiday calendar at <baseURL>/info/YYYY-MM-DD.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup implements workday.Calendar.
func (c *Client) Lookup(ctx context.Context, date time.Time) (workday.DayInfo, error) {
	url := fmt.Sprintf("%s/info/%s", c.baseURL, date.Format("2006-01-02"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return workday.DayInfo{}, fmt.Errorf("build holiday request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return workday.DayInfo{}, fmt.Errorf("%w: %v", workday.ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return workday.DayInfo{}, fmt.Errorf("%w: status %d", workday.ErrCalendarUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return workday.DayInfo{}, fmt.Errorf("%w: %v", workday.ErrCalendarUnavailable, err)
	}

	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return workday.DayInfo{}, fmt.Errorf("%w: %v", workday.ErrMalformedResponse, err)
	}
	if payload.Code == nil {
		return workday.DayInfo{}, fmt.Errorf("%w: missing code", workday.ErrMalformedResponse)
	}
	if *payload.Code != 0 {
		return workday.DayInfo{}, fmt.Errorf("%w: code %d", workday.ErrCalendarRejected, *payload.Code)
	}
	if payload.Type == nil || payload.Type.Type == nil {
		return workday.DayInfo{}, fmt.Errorf("%w: missing type", workday.ErrMalformedResponse)
	}

	dayType := workday.DayType(*payload.Type.Type)
	if !dayType.Valid() {
		return workday.DayInfo{}, fmt.Errorf("%w: unknown day type %d", workday.ErrMalformedResponse, *payload.Type.Type)
	}

	return workday.DayInfo{
		Date:        date,
		Type:        dayType,
		HolidayName: payload.Type.Name,
		Source:      workday.SourceCalendar,
	}, nil
}
