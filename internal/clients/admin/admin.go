// admin - клиент Ghost Admin API. Каждый запрос подписывается свежим
// admin-токеном (credentials.Signer) со схемой авторизации "Ghost".
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/redact"
)

const (
	apiName    = "ghost admin"
	apiPath    = "/ghost/api/admin/"
	authPrefix = "Ghost "
)

// ErrNoIdentity - admin API не вернул ни одной identity с токеном.
// Responder: 404.
var ErrNoIdentity = errors.New("no identities found")

// Signer выпускает admin-токен на момент now.
type Signer interface {
	Sign(now time.Time) (string, error)
}

// Client - клиент admin API.
type Client struct {
	baseURL       string
	acceptVersion string
	signer        Signer
	http          *http.Client
	now           func() time.Time
}

// New создаёт клиента. baseURL - адрес сайта Ghost (без /ghost/api/admin).
func New(baseURL, acceptVersion string, signer Signer, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		acceptVersion: acceptVersion,
		signer:        signer,
		http:          client,
		now:           time.Now,
	}
}

// Identities - GET identities/.
func (c *Client) Identities(ctx context.Context) (*models.IdentitiesResponse, error) {
	const op = "admin.Identities"

	var out models.IdentitiesResponse
	if err := c.get(ctx, "identities/", &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// BearerToken возвращает токен первой identity - bearer для ActivityPub API.
func (c *Client) BearerToken(ctx context.Context) (string, error) {
	const op = "admin.BearerToken"

	resp, err := c.Identities(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Identities) == 0 || resp.Identities[0].Token == "" {
		log.From(ctx).Warn("no_identities", slog.String("op", op))
		return "", fmt.Errorf("%s: %w", op, ErrNoIdentity)
	}

	token := resp.Identities[0].Token
	log.From(ctx).Debug("bearer_token_extracted",
		slog.String("op", op),
		slog.String("token", redact.TokenPrefix(token)),
		slog.Int("identities", len(resp.Identities)),
	)

	return token, nil
}

// get выполняет подписанный GET и декодирует JSON-ответ в dst.
func (c *Client) get(ctx context.Context, endpoint string, dst any) error {
	token, err := c.signer.Sign(c.now())
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPath+endpoint, nil)
	if err != nil {
		return fmt.Errorf("new_request: %w", err)
	}

	req.Header.Set("Authorization", authPrefix+token)
	req.Header.Set("Content-Type", "application/json")
	if c.acceptVersion != "" {
		req.Header.Set("Accept-Version", c.acceptVersion)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if !transport.IsSuccess(resp.StatusCode) {
		apiErr := transport.NewAPIError(apiName, resp)
		log.From(ctx).Error("admin_api_error",
			slog.String("endpoint", endpoint),
			slog.Int("status", apiErr.Status),
			slog.Any("body", apiErr.Body),
		)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}
