// Package client talks to the files manager HTTP API on behalf of the CLI.
//
// A Client keeps the session token returned by Connect and sends it in the
// X-Token header on every authenticated call. Failures are mapped to the
// sentinels ErrUnavailable and ErrUnauthorized, or to an *APIError carrying
// the server's message.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/client/models"
	"github.com/dmitrijs2005/filesmanager/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a non-2xx answer other than 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewFile describes an entry to create. Data is raw content; it is base64
// encoded on the wire.
type NewFile struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     []byte
}

// Status is the /status payload.
type Status struct {
	DB       bool `json:"db"`
	Sessions bool `json:"sessions"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Ping(ctx context.Context) error {
	var s Status
	if err := c.do(ctx, http.MethodGet, "/status", nil, &s, false); err != nil {
		return err
	}
	if !s.DB || !s.Sessions {
		return ErrUnavailable
	}
	return nil
}

func (c *Client) Register(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/users", body, &u, false); err != nil {
		return nil, err
	}
	return &u, nil
}

// Connect signs in with Basic credentials and keeps the returned token.
func (c *Client) Connect(ctx context.Context, email, password string) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/connect", nil)
	if err != nil {
		return err
	}
	cred := base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
	req.Header.Set("Authorization", "Basic "+cred)

	var out struct {
		Token string `json:"token"`
	}
	if err := c.send(req, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// Disconnect revokes the session. The local token is dropped even when the
// server refuses.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.Token() == "" {
		return ErrNotLoggedIn
	}
	err := c.do(ctx, http.MethodGet, "/disconnect", nil, nil, true)
	c.SetToken("")
	return err
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Create(ctx context.Context, f NewFile) (*models.File, error) {
	body := struct {
		Name     string          `json:"name"`
		Type     string          `json:"type"`
		ParentID models.ParentID `json:"parentId"`
		IsPublic bool            `json:"isPublic"`
		Data     string          `json:"data,omitempty"`
	}{
		Name:     f.Name,
		Type:     f.Type,
		ParentID: models.ParentID(f.ParentID),
		IsPublic: f.IsPublic,
	}
	if f.Type != models.TypeFolder {
		body.Data = base64.StdEncoding.EncodeToString(f.Data)
	}

	var out models.File
	if err := c.do(ctx, http.MethodPost, "/files", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.File, error) {
	var out models.File
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of the children of parentID ("" for the root).
func (c *Client) List(ctx context.Context, parentID string, page int) ([]models.File, error) {
	q := url.Values{}
	if parentID != "" {
		q.Set("parentId", parentID)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	path := "/files"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	out := []models.File{}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Publish(ctx context.Context, id string) (*models.File, error) {
	return c.visibility(ctx, id, "publish")
}

func (c *Client) Unpublish(ctx context.Context, id string) (*models.File, error) {
	return c.visibility(ctx, id, "unpublish")
}

func (c *Client) visibility(ctx context.Context, id, action string) (*models.File, error) {
	var out models.File
	if err := c.do(ctx, http.MethodPut, "/files/"+url.PathEscape(id)+"/"+action, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download returns the content of a file, or of one of its thumbnails when
// size is non-zero, with the Content-Type reported by the server.
func (c *Client) Download(ctx context.Context, id string, size int) ([]byte, string, error) {
	path := "/files/" + url.PathEscape(id) + "/data"
	if size > 0 {
		path += "?size=" + strconv.Itoa(size)
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	if t := c.Token(); t != "" {
		req.Header.Set(common.TokenHeaderName, t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		t := c.Token()
		if t == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.TokenHeaderName, t)
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var e struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&e)
	if e.Error == "" {
		e.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: e.Error}
}
