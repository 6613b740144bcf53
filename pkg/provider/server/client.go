// Copyright © 2024 Bank-Vaults Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
)

// client talks to the remote key/value service. Every primitive is a single
// request; there are no retries.
type client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// setRequest is the body of POST /set.
type setRequest struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Locked bool   `json:"locked"`
}

// response holds a decoded service response.
type response struct {
	StatusCode int
	Body       map[string]any
	Raw        json.RawMessage
}

// Message returns the status message reported by the service.
func (r *response) Message() string {
	for _, field := range []string{"message", "status"} {
		if msg := cast.ToString(r.Body[field]); msg != "" {
			return msg
		}
	}
	return "Success"
}

// Success returns false only if the service explicitly reports failure.
func (r *response) Success() bool {
	success, ok := r.Body["success"]
	if !ok {
		return r.StatusCode < http.StatusBadRequest
	}
	return cast.ToBool(success)
}

func (c *client) GetEntry(ctx context.Context, key string) (v1alpha1.Result, error) {
	resp, err := c.do(ctx, http.MethodGet, "/get/"+url.PathEscape(key), nil)
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("api get request failed for key '%s': %w", key, err)
	}

	// Absent keys are reported either by status or by a successful body without value
	if resp.StatusCode == http.StatusNotFound {
		return v1alpha1.Result{Message: resp.Message()}, v1alpha1.ErrKeyNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return v1alpha1.Result{}, fmt.Errorf("api get request failed for key '%s': status %d: %s",
			key, resp.StatusCode, resp.Message())
	}
	value, hasValue := resp.Body["value"]
	if !hasValue {
		return v1alpha1.Result{Message: resp.Message()}, v1alpha1.ErrKeyNotFound
	}

	return v1alpha1.Result{
		Success: true,
		Message: resp.Message(),
		Entry: &v1alpha1.Entry{
			Value:  value,
			Locked: cast.ToBool(resp.Body["locked"]),
		},
		Raw: resp.Raw,
	}, nil
}

func (c *client) Info(ctx context.Context, key string) (v1alpha1.Result, error) {
	resp, err := c.do(ctx, http.MethodGet, "/info/"+url.PathEscape(key), nil)
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("api info request failed for key '%s': %w", key, err)
	}

	info := &v1alpha1.Info{
		Exists: cast.ToBool(resp.Body["exists"]),
		Value:  resp.Body["value"],
		Locked: cast.ToBool(resp.Body["locked"]),
		Type:   cast.ToString(resp.Body["type"]),
	}

	return v1alpha1.Result{
		Success: resp.Success(),
		Message: resp.Message(),
		Info:    info,
		Raw:     resp.Raw,
	}, nil
}

func (c *client) SetEntry(ctx context.Context, key string, entry v1alpha1.Entry) (v1alpha1.Result, error) {
	resp, err := c.do(ctx, http.MethodPost, "/set", &setRequest{
		Key:    key,
		Value:  entry.Value,
		Locked: entry.Locked,
	})
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("api set request failed for key '%s': %w", key, err)
	}

	return v1alpha1.Result{
		Success: resp.Success(),
		Message: resp.Message(),
		Raw:     resp.Raw,
	}, nil
}

func (c *client) DeleteEntry(ctx context.Context, key string) (v1alpha1.Result, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(key), nil)
	if err != nil {
		return v1alpha1.Result{}, fmt.Errorf("api delete request failed for key '%s': %w", key, err)
	}

	return v1alpha1.Result{
		Success: resp.Success(),
		Message: resp.Message(),
		Raw:     resp.Raw,
	}, nil
}

// do sends a single request and decodes the JSON response object.
func (c *client) do(ctx context.Context, method, endpoint string, body any) (*response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqURL := strings.TrimSuffix(c.baseURL.String(), "/") + endpoint
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	resp := &response{
		StatusCode: httpResp.StatusCode,
		Raw:        raw,
	}
	if err := json.Unmarshal(raw, &resp.Body); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}
	if resp.Body == nil {
		resp.Body = map[string]any{}
	}

	return resp, nil
}
