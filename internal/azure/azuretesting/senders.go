// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package azuretesting provides fake transports and credentials for
// exercising Azure Resource Manager clients in tests.
package azuretesting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

type response struct {
	resp *http.Response
	err  error
}

// MockSender is a policy.Transporter which replies to requests with
// queued responses, in order. If PathPattern is set, every request path
// must match it.
type MockSender struct {
	mu          sync.Mutex
	responses   []response
	PathPattern string
	Requests    []*http.Request
}

// AppendResponse queues resp as the next response.
func (s *MockSender) AppendResponse(resp *http.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response{resp: resp})
}

// AppendAndRepeatResponse queues resp n times.
func (s *MockSender) AppendAndRepeatResponse(resp *http.Response, n int) {
	for i := 0; i < n; i++ {
		copied := *resp
		if resp.Body != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body = io.NopCloser(bytes.NewReader(body))
			copied.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.AppendResponse(&copied)
	}
}

// SetError queues err as the result of the next request.
func (s *MockSender) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response{err: err})
}

// Pending returns the number of queued responses not yet consumed.
func (s *MockSender) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses)
}

// Do is part of the policy.Transporter interface.
func (s *MockSender) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.PathPattern != "" {
		matched, err := regexp.MatchString(s.PathPattern, req.URL.Path)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, fmt.Errorf("request path %q did not match pattern %q", req.URL.Path, s.PathPattern)
		}
	}
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("no response queued for %s %s", req.Method, req.URL)
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	if r.resp != nil {
		r.resp.Request = req
	}
	return r.resp, r.err
}

// Senders is a policy.Transporter which hands each request to the next
// sender in the list. A sender is discarded once its responses are
// exhausted.
type Senders []*MockSender

// Do is part of the policy.Transporter interface.
func (s *Senders) Do(req *http.Request) (*http.Response, error) {
	for len(*s) > 0 {
		sender := (*s)[0]
		if sender.Pending() == 0 {
			*s = (*s)[1:]
			continue
		}
		resp, err := sender.Do(req)
		if sender.Pending() == 0 {
			*s = (*s)[1:]
		}
		return resp, err
	}
	return nil, fmt.Errorf("no sender for %s %s", req.Method, req.URL)
}

// NewBody returns a request or response body holding content.
func NewBody(content string) io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(content)))
}

// NewResponseWithBodyAndStatus returns a JSON response with the given body
// and status.
func NewResponseWithBodyAndStatus(body io.ReadCloser, status int, statusText string) *http.Response {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	if body == nil {
		body = NewBody("")
	}
	return &http.Response{
		Status:     fmt.Sprintf("%d %s", status, statusText),
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}
}

// NewResponseWithStatus returns an empty response with the given status.
func NewResponseWithStatus(statusText string, status int) *http.Response {
	return NewResponseWithBodyAndStatus(nil, status, statusText)
}

// NewResponseWithContent returns a 200 response holding content.
func NewResponseWithContent(content string) *http.Response {
	return NewResponseWithBodyAndStatus(NewBody(content), http.StatusOK, "")
}

// NewErrorResponse returns a response carrying an ARM error envelope.
func NewErrorResponse(status int, code, message string) *http.Response {
	body := fmt.Sprintf(`{"error":{"code":%q,"message":%q}}`, code, message)
	resp := NewResponseWithBodyAndStatus(NewBody(body), status, "")
	resp.Header.Set("x-ms-error-code", code)
	return resp
}

// NewSenderWithValue returns a sender replying once with v encoded as JSON.
func NewSenderWithValue(v interface{}) *MockSender {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	sender := &MockSender{}
	sender.AppendResponse(NewResponseWithContent(string(data)))
	return sender
}

// NewSenderWithStatus returns a sender replying once with an empty body
// and the given status.
func NewSenderWithStatus(status int) *MockSender {
	sender := &MockSender{}
	sender.AppendResponse(NewResponseWithStatus("", status))
	return sender
}

// NewSenderWithError returns a sender replying once with an ARM error.
func NewSenderWithError(status int, code string) *MockSender {
	sender := &MockSender{}
	sender.AppendResponse(NewErrorResponse(status, code, code))
	return sender
}

// ClientOptions returns ARM client options sending through transport,
// with the SDK's own retries disabled.
func ClientOptions(transport policy.Transporter) *arm.ClientOptions {
	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Transport: transport,
			Retry:     policy.RetryOptions{MaxRetries: -1},
		},
	}
}

// FakeCredential is an azcore.TokenCredential handing out a fixed token.
type FakeCredential struct{}

// GetToken is part of the azcore.TokenCredential interface.
func (c *FakeCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{
		Token:     "fake-token",
		ExpiresOn: time.Now().Add(time.Hour),
	}, nil
}
