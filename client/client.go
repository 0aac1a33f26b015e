package client

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

	"github.com/lestrrat-go/backoff/v2"
	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/log"
	"github.com/mbolis/quick-swipe/model"
)

// StatusError is an unexpected HTTP status returned by the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusConflict {
		return engine.ErrResponseConflict
	}
	return nil
}

// Client talks to the survey API. It serves as the engine's Catalog and
// ResponseStore on the respondent side.
type Client struct {
	base   string
	http   *http.Client
	policy backoff.Policy
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBackoff sets the retry policy for saving responses.
func WithBackoff(p backoff.Policy) Option {
	return func(c *Client) { c.policy = p }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
		policy: backoff.Exponential(
			backoff.WithMinInterval(200*time.Millisecond),
			backoff.WithMaxInterval(2*time.Second),
			backoff.WithJitterFactor(0.1),
			backoff.WithMaxRetries(3),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchSurvey(ctx context.Context, id string) (model.Survey, error) {
	var survey model.Survey
	err := c.do(ctx, http.MethodGet, surveyPath(id, ""), "", nil, &survey)
	return survey, err
}

// InsertResponse saves r, retrying network failures and server errors.
// Client errors are returned at once. r.ID makes retries safe.
func (c *Client) InsertResponse(ctx context.Context, r model.Response) error {
	body := map[string]any{
		"id":             r.ID,
		"question_index": r.QuestionIndex,
		"answer":         r.Answer,
	}

	var err error
	b := c.policy.Start(ctx)
	for backoff.Continue(b) {
		err = c.do(ctx, http.MethodPost, surveyPath(r.SurveyID, "/responses"), "", body, nil)
		if err == nil || !retryable(ctx, err) {
			return err
		}
		log.Debugf("client.insert_response: retrying: %s", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && err == nil {
		err = ctxErr
	}
	return err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, engine.ErrNotFound) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return true
}

func (c *Client) FetchResponses(ctx context.Context, surveyID string) ([]model.Response, error) {
	var out struct {
		Responses []model.Response `json:"responses"`
	}
	err := c.do(ctx, http.MethodGet, surveyPath(surveyID, "/responses"), "", nil, &out)
	return out.Responses, err
}

type Created struct {
	ID string `json:"id"`
	model.SurveyLinks
}

// CreateSurvey publishes a survey and returns its identifier and share links.
func (c *Client) CreateSurvey(ctx context.Context, title string, questions []string) (Created, error) {
	var created Created
	err := c.do(ctx, http.MethodPost, "/api/surveys", "", map[string]any{
		"title":     title,
		"questions": questions,
	}, &created)
	return created, err
}

func (c *Client) Links(ctx context.Context, id string) (model.SurveyLinks, error) {
	var links model.SurveyLinks
	err := c.do(ctx, http.MethodGet, surveyPath(id, "/links"), "", nil, &links)
	return links, err
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/login", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(username, password)

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err = c.send(req, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errors.New("login: empty access token")
	}
	return token.AccessToken, nil
}

// ListSurveys returns every survey, newest first. It requires an admin token.
func (c *Client) ListSurveys(ctx context.Context, token string) ([]model.Survey, error) {
	var out struct {
		Surveys []model.Survey `json:"surveys"`
	}
	err := c.do(ctx, http.MethodGet, "/api/admin/surveys", token, nil, &out)
	return out.Surveys, err
}

func (c *Client) DeleteSurvey(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/surveys/"+url.PathEscape(id), token, nil, nil)
}

func surveyPath(id, suffix string) string {
	return "/api/surveys/" + url.PathEscape(id) + suffix
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return engine.ErrNotFound
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &e) != nil {
			e.Message = strings.TrimSpace(string(data))
		}
		return &StatusError{Code: resp.StatusCode, Message: e.Message}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
