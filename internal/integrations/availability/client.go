package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Client клиент внешнего сервиса занятости слотов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CheckAvailability спрашивает, свободен ли слот для услуги в указанную дату
func (c *Client) CheckAvailability(ctx context.Context, date time.Time, slot types.TimeString, serviceID int64) (bool, error) {
	query := url.Values{}
	query.Set("date", date.Format("2006-01-02"))
	query.Set("time", slot.String())
	query.Set("serviceId", strconv.FormatInt(serviceID, 10))

	endpoint := fmt.Sprintf("%s/api/v1/availability?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("AvailabilityService unavailable for service=%d date=%s time=%s: %v",
			serviceID, query.Get("date"), slot, err)
		return false, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warn("AvailabilityService returned status %d for service=%d date=%s time=%s: %s",
			resp.StatusCode, serviceID, query.Get("date"), slot, string(body))
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Error("AvailabilityService sent malformed response for service=%d: %v", serviceID, err)
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.Available, nil
}
