package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// CSRFHeader заголовок, в котором бэкенд ждёт CSRF токен.
const CSRFHeader = "X-CSRFToken"

// Options параметры клиента.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	CSRFCookieName string
	Log            *logrus.Entry
}

// Client обращается к REST бэкенду от имени одной браузерной сессии.
// Запросы с credentials идут через собственный cookie jar (sessionid, csrftoken),
// анонимные запросы куки не отправляют.
type Client struct {
	base       *url.URL
	jar        http.CookieJar
	authed     *http.Client
	anon       *http.Client
	csrfCookie string
	log        *logrus.Entry
}

// NewClient создаёт клиента с пустым cookie jar.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: некорректный адрес бэкенда: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: адрес бэкенда должен быть абсолютным: %q", opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("api: cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	csrf := opts.CSRFCookieName
	if csrf == "" {
		csrf = "csrftoken"
	}
	log := opts.Log
	if log == nil {
		log = logger.Component("api")
	}

	return &Client{
		base:       base,
		jar:        jar,
		authed:     &http.Client{Timeout: timeout, Jar: jar},
		anon:       &http.Client{Timeout: timeout},
		csrfCookie: csrf,
		log:        log,
	}, nil
}

// BaseURL возвращает адрес бэкенда.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// CSRFToken читает токен из куки бэкенда.
func (c *Client) CSRFToken() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// request описывает один вызов бэкенда.
type request struct {
	method      string
	path        string
	query       interface{}
	body        interface{}
	credentials bool
}

func (c *Client) endpoint(path string, q interface{}) (string, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if q != nil {
		values, err := query.Values(q)
		if err != nil {
			return "", fmt.Errorf("api: query: %w", err)
		}
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

// do выполняет запрос и раскладывает ответ в out. Не-2xx превращается в *apperror.AppError
// с UpstreamStatus и полями ошибок, сетевые сбои в ErrCodeTransport.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	target, err := c.endpoint(r.path, r.query)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "api: не удалось собрать адрес")
	}

	var payload io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "api: не удалось сериализовать тело")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, payload)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "api: не удалось создать запрос")
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.anon
	if r.credentials {
		httpClient = c.authed
		if isMutating(r.method) {
			req.Header.Set(CSRFHeader, c.CSRFToken())
		}
	}

	started := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method": r.method,
			"path":   r.path,
			"error":  err.Error(),
		}).Warn("api: запрос не выполнен")
		return apperror.Wrap(err, apperror.ErrCodeTransport, "api: бэкенд недоступен")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeTransport, "api: не удалось прочитать ответ")
	}

	c.log.WithFields(logrus.Fields{
		"method":   r.method,
		"path":     r.path,
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	}).Debug("api: ответ бэкенда")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstreamError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "api: не удалось разобрать ответ")
	}
	return nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}
