package bookinggateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Client клиент внешнего шлюза бронирования и оплаты
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Submit отправляет черновик брони.
// Отказ шлюза (402, 409, 422) возвращается как SubmissionResult с Success=false и без ошибки.
// Ошибка означает, что результат неизвестен (сеть, 5xx, битый ответ).
func (c *Client) Submit(ctx context.Context, draft domain.BookingDraft) (*domain.SubmissionResult, error) {
	body, err := json.Marshal(FromDomainDraft(draft))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode draft: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/api/v1/bookings", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, draft.ID.String())

	c.log.Info("Submitting draft id=%s service=%d date=%s time=%s total=%d",
		draft.ID, draft.ServiceID, draft.Date.Format(domain.DateFormat), draft.TimeDescriptor(), draft.TotalCents)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var confirmation ConfirmationResponse
		if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
			return nil, fmt.Errorf("%w: failed to decode confirmation: %v", ErrInvalidResponse, err)
		}
		if confirmation.ConfirmationID == "" {
			return nil, fmt.Errorf("%w: empty confirmation id", ErrInvalidResponse)
		}
		return &domain.SubmissionResult{
			Success:        true,
			ConfirmationID: confirmation.ConfirmationID,
		}, nil

	case http.StatusPaymentRequired, http.StatusConflict, http.StatusUnprocessableEntity:
		var rejection RejectionResponse
		_ = json.NewDecoder(resp.Body).Decode(&rejection)
		if rejection.Reason == "" {
			rejection.Reason = http.StatusText(resp.StatusCode)
		}
		c.log.Warn("Draft id=%s rejected by gateway: status=%d reason=%s", draft.ID, resp.StatusCode, rejection.Reason)
		return &domain.SubmissionResult{
			Success: false,
			Reason:  rejection.Reason,
		}, nil

	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}
}
