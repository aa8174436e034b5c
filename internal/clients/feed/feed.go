// feed - клиент ActivityPub API Ghost: постраничный обход posts/me
// и ответы на заметку.
//
// Обход строго последовательный: следующая страница запрашивается только
// после разбора предыдущей. Ретраев и детекции циклов курсора нет.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
)

const (
	apiName        = "activitypub"
	postsPath      = "/posts/me"
	repliesPath    = "/replies/"
	acceptActivity = "application/activity+json"
	maxBody        = 16 << 20
)

// ErrMalformedResponse - успешный ответ, который не является JSON.
var ErrMalformedResponse = errors.New("malformed response")

// Client - клиент ActivityPub API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиента. baseURL - база API, например https://site/.ghost/activitypub/v1.
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// FetchAll обходит все страницы posts/me и возвращает элементы в порядке получения.
//
// Любой не-2xx ответ прерывает обход: возвращается *transport.APIError,
// накопленные страницы отбрасываются. 2xx-страница, которую не удалось
// разобрать, считается пустой.
func (c *Client) FetchAll(ctx context.Context, bearer string) ([]models.FeedItem, error) {
	const op = "feed.FetchAll"

	lg := log.From(ctx).With(slog.String("op", op))

	base := c.baseURL + postsPath
	current := base

	var all []models.FeedItem
	pages := 0

	for {
		page, err := c.fetchPage(ctx, current, bearer)
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", op, pages+1, err)
		}

		pages++
		all = append(all, page.Posts...)

		lg.Debug("feed_page_fetched",
			slog.Int("page", pages),
			slog.Int("posts", len(page.Posts)),
			slog.Bool("has_next", page.Next != ""),
		)

		if page.Next == "" {
			break
		}

		current = nextURL(base, page.Next)
	}

	lg.Info("feed_fetched",
		slog.Int("pages", pages),
		slog.Int("items", len(all)),
	)

	return all, nil
}

// Replies возвращает ответы на заметку noteURL как есть.
func (c *Client) Replies(ctx context.Context, bearer, noteURL string) (json.RawMessage, error) {
	const op = "feed.Replies"

	body, err := c.get(ctx, c.baseURL+repliesPath+url.PathEscape(noteURL), bearer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedResponse)
	}

	return json.RawMessage(body), nil
}

// nextURL строит адрес следующей страницы. API отдаёт next то как
// абсолютный URL, то как непрозрачный курсор; поддерживаются оба варианта.
func nextURL(base, next string) string {
	if strings.HasPrefix(next, "http://") || strings.HasPrefix(next, "https://") {
		return next
	}

	return base + "?" + url.Values{"next": {next}}.Encode()
}

func (c *Client) fetchPage(ctx context.Context, pageURL, bearer string) (models.Page, error) {
	const op = "feed.fetchPage"

	body, err := c.get(ctx, pageURL, bearer)
	if err != nil {
		return models.Page{}, err
	}

	page, skipped, ok := decodePage(body)
	if !ok {
		log.From(ctx).Warn("feed_page_malformed",
			slog.String("op", op),
			slog.String("url", pageURL),
			slog.Int("bytes", len(body)),
		)
		return page, nil
	}

	for _, s := range skipped {
		log.From(ctx).Warn("feed_item_skipped",
			slog.String("op", op),
			slog.String("url", pageURL),
			slog.Int("index", s.index),
			slog.String("err", s.err.Error()),
		)
	}

	return page, nil
}

// rawPage - конверт страницы; элементы разбираются по одному.
type rawPage struct {
	Posts []json.RawMessage `json:"posts"`
	Next  string            `json:"next"`
}

// skippedItem - элемент страницы, который не удалось разобрать.
type skippedItem struct {
	index int
	err   error
}

// decodePage разбирает страницу. ok == false, только если тело не является
// ни конвертом {posts, next}, ни массивом постов. Элемент с полем
// неожиданного типа пропускается, остальные элементы и next сохраняются.
// Голый массив постов API отдавал исторически, он считается последней страницей.
func decodePage(body []byte) (models.Page, []skippedItem, bool) {
	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return models.Page{}, nil, false
		}
		raw = rawPage{Posts: items}
	}

	page := models.Page{Next: raw.Next}
	var skipped []skippedItem

	for i, msg := range raw.Posts {
		var item models.FeedItem
		if err := json.Unmarshal(msg, &item); err != nil {
			skipped = append(skipped, skippedItem{index: i, err: err})
			continue
		}
		page.Posts = append(page.Posts, item)
	}

	return page, skipped, true
}

// get выполняет GET с bearer-токеном и возвращает тело 2xx-ответа.
func (c *Client) get(ctx context.Context, target, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("new_request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", acceptActivity)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if !transport.IsSuccess(resp.StatusCode) {
		apiErr := transport.NewAPIError(apiName, resp)
		log.From(ctx).Error("activitypub_api_error",
			slog.String("url", target),
			slog.Int("status", apiErr.Status),
			slog.Any("body", apiErr.Body),
		)
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read_body: %w", err)
	}

	return body, nil
}
