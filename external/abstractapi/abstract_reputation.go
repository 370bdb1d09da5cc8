package abstractapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"StorefrontAPI/internal/services"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://emailreputation.abstractapi.com/v1/"

// AbstractReputationValidator rejects disposable, role-based and low
// reputation addresses. When the API itself is unreachable the address is
// let through; registration does not depend on a third party being up.
type AbstractReputationValidator struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewAbstractReputationValidator(apiKey string, logger *zap.Logger) (*AbstractReputationValidator, error) {
	if apiKey == "" {
		return nil, errors.New("abstractapi: api key not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbstractReputationValidator{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}, nil
}

// WithBaseURL points the validator at another endpoint.
func (v *AbstractReputationValidator) WithBaseURL(base string) *AbstractReputationValidator {
	v.baseURL = base
	return v
}

type reputationResponse struct {
	EmailDeliverability struct {
		Status string `json:"status"`
	} `json:"email_deliverability"`
	EmailQuality struct {
		Score        json.Number `json:"score"`
		IsDisposable bool        `json:"is_disposable"`
		IsRole       bool        `json:"is_role"`
	} `json:"email_quality"`
	// legacy flat shape
	EmailReputation string `json:"email_reputation"` // LOW, MEDIUM, HIGH
	IsDisposable    bool   `json:"is_disposable_email"`
	IsRoleEmail     bool   `json:"is_role_email"`
}

func (v *AbstractReputationValidator) Validate(ctx context.Context, email string) error {
	out, err := v.lookup(ctx, email)
	if err != nil {
		v.logger.Warn("email reputation lookup failed, allowing address", zap.Error(err))
		return nil
	}

	switch {
	case out.IsDisposable || out.EmailQuality.IsDisposable:
		return fmt.Errorf("%w: disposable email is not allowed", services.ErrEmailRejected)
	case out.IsRoleEmail || out.EmailQuality.IsRole:
		return fmt.Errorf("%w: role-based email is not allowed", services.ErrEmailRejected)
	case out.EmailReputation == "LOW":
		return fmt.Errorf("%w: email reputation is too low", services.ErrEmailRejected)
	case out.EmailDeliverability.Status == "undeliverable":
		return fmt.Errorf("%w: email is undeliverable", services.ErrEmailRejected)
	}
	return nil
}

func (v *AbstractReputationValidator) lookup(ctx context.Context, email string) (*reputationResponse, error) {
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("api_key", v.apiKey)
	q.Set("email", email)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("email reputation service error: %s", resp.Status)
	}

	var out reputationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
