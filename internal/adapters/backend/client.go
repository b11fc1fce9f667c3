// Package backend is the portal's only data access layer: a REST client for
// the backend service that owns all employee, course, enrollment, and
// certificate records.
//
// Failure policy: transport errors, non-success statuses, and decode failures
// never propagate to handlers as errors. Reads collapse to "nothing to show";
// writes return the raw status and body so call sites can branch, or nil when
// the backend could not be reached at all.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"

	"github.com/csg33k/training-portal/internal/domain"
	"github.com/csg33k/training-portal/internal/ports"
)

type Client struct {
	http *resty.Client
	log  *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{http: c, log: log}
}

// request builds a resty request carrying ctx and, when an authenticated
// employee rides on it, the employee_id query parameter the backend uses for
// authorization scoping.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if e := domain.EmployeeFrom(ctx); e != nil {
		req.SetQueryParam("employee_id", strconv.FormatInt(e.ID, 10))
	}
	return req
}

func (c *Client) Get(ctx context.Context, path string, out any) bool {
	resp, err := c.request(ctx).Get(route(path))
	if err != nil {
		c.log.Warn("backend unreachable", "method", "GET", "path", path, "err", err)
		return false
	}
	if resp.StatusCode() != 200 {
		return false
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.log.Warn("backend response undecodable", "path", path, "err", err)
		return false
	}
	return true
}

func (c *Client) Post(ctx context.Context, path string, payload any, files ...ports.Attachment) *ports.Response {
	req := c.request(ctx)
	if len(files) > 0 {
		// Multipart submission: payload carries the flattened string fields
		// (certificate[name], ...) the backend's parameter parser expects.
		if fields, ok := payload.(map[string]string); ok {
			req.SetMultipartFormData(fields)
		}
		for _, f := range files {
			req.SetMultipartField(f.Field, f.Filename, mimetype.Detect(f.Content).String(), bytes.NewReader(f.Content))
		}
	} else {
		req.SetBody(payload)
	}
	resp, err := req.Post(route(path))
	if err != nil {
		c.log.Warn("backend unreachable", "method", "POST", "path", path, "err", err)
		return nil
	}
	return &ports.Response{StatusCode: resp.StatusCode(), Body: resp.Body()}
}

func (c *Client) Patch(ctx context.Context, path string, payload any) *ports.Response {
	resp, err := c.request(ctx).SetBody(payload).Patch(route(path))
	if err != nil {
		c.log.Warn("backend unreachable", "method", "PATCH", "path", path, "err", err)
		return nil
	}
	return &ports.Response{StatusCode: resp.StatusCode(), Body: resp.Body()}
}

func (c *Client) Delete(ctx context.Context, path string) *ports.Response {
	resp, err := c.request(ctx).Delete(route(path))
	if err != nil {
		c.log.Warn("backend unreachable", "method", "DELETE", "path", path, "err", err)
		return nil
	}
	return &ports.Response{StatusCode: resp.StatusCode(), Body: resp.Body()}
}

func route(path string) string {
	return "/" + strings.TrimPrefix(path, "/")
}
