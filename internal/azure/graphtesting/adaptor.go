// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package graphtesting provides a scripted Microsoft Graph request adaptor
// for tests.
package graphtesting

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/juju/errors"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/microsoft/kiota-abstractions-go/authentication"
	"github.com/microsoft/kiota-abstractions-go/serialization"
	"github.com/microsoft/kiota-abstractions-go/store"
	nethttplibrary "github.com/microsoft/kiota-http-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

// Result is the scripted outcome of one Graph request.
type Result struct {
	// Method, when set, must equal the request's HTTP method.
	Method string
	// PathPattern, when set, must match the request's URL template.
	PathPattern string
	// Params are path parameters the request must carry.
	Params map[string]string
	// Result is returned from Send.
	Result serialization.Parsable
	// Value is returned from SendPrimitive.
	Value any
	Err   error
}

// Call records a request seen by the adaptor.
type Call struct {
	Method      string
	URLTemplate string
	Params      map[string]string
	Query       map[string]string
	Headers     map[string][]string
}

// MockRequestAdaptor replies to Graph requests with scripted results, in
// order.
type MockRequestAdaptor struct {
	*nethttplibrary.NetHttpRequestAdapter

	mu      sync.Mutex
	results []Result
	calls   []Call
}

// NewMockRequestAdaptor returns an adaptor replying with results.
func NewMockRequestAdaptor(results ...Result) (*MockRequestAdaptor, error) {
	ra, err := nethttplibrary.NewNetHttpRequestAdapter(&authentication.AnonymousAuthenticationProvider{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &MockRequestAdaptor{NetHttpRequestAdapter: ra, results: results}, nil
}

// Add appends more scripted results.
func (m *MockRequestAdaptor) Add(results ...Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, results...)
}

// Calls returns the requests seen so far.
func (m *MockRequestAdaptor) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Remaining returns the number of scripted results not yet consumed.
func (m *MockRequestAdaptor) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func (m *MockRequestAdaptor) next(requestInfo *abstractions.RequestInformation) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := Call{
		Method:      requestInfo.Method.String(),
		URLTemplate: requestInfo.UrlTemplate,
		Params:      map[string]string{},
		Query:       map[string]string{},
		Headers:     map[string][]string{},
	}
	for k, v := range requestInfo.PathParameters {
		call.Params[k] = v
	}
	for k, v := range requestInfo.QueryParameters {
		call.Query[k] = v
	}
	if requestInfo.Headers != nil {
		for _, k := range requestInfo.Headers.ListKeys() {
			call.Headers[k] = requestInfo.Headers.Get(k)
		}
	}
	m.calls = append(m.calls, call)

	if len(m.results) == 0 {
		return Result{}, errors.Errorf("no results for %s %q", call.Method, requestInfo.UrlTemplate)
	}
	res := m.results[0]
	m.results = m.results[1:]
	if res.Method != "" && res.Method != call.Method {
		return Result{}, fmt.Errorf("request method %q did not match %q", call.Method, res.Method)
	}
	if res.PathPattern != "" {
		matched, err := regexp.MatchString(res.PathPattern, requestInfo.UrlTemplate)
		if err != nil {
			return Result{}, err
		}
		if !matched {
			return Result{}, fmt.Errorf(
				"request path %q did not match pattern %q",
				requestInfo.UrlTemplate, res.PathPattern,
			)
		}
	}
	for k, v := range res.Params {
		if val := requestInfo.PathParameters[k]; val != v {
			return Result{}, fmt.Errorf(
				"request path parameter %q=%q did not match parameter %q",
				k, val, v,
			)
		}
	}
	return res, nil
}

// Send is part of the abstractions.RequestAdapter interface.
func (m *MockRequestAdaptor) Send(ctx context.Context, requestInfo *abstractions.RequestInformation, constructor serialization.ParsableFactory, errorMappings abstractions.ErrorMappings) (serialization.Parsable, error) {
	res, err := m.next(requestInfo)
	if err != nil {
		return nil, err
	}
	return res.Result, res.Err
}

// SendPrimitive is part of the abstractions.RequestAdapter interface.
func (m *MockRequestAdaptor) SendPrimitive(ctx context.Context, requestInfo *abstractions.RequestInformation, typeName string, errorMappings abstractions.ErrorMappings) (any, error) {
	res, err := m.next(requestInfo)
	if err != nil {
		return nil, err
	}
	return res.Value, res.Err
}

// SendNoContent is part of the abstractions.RequestAdapter interface.
func (m *MockRequestAdaptor) SendNoContent(ctx context.Context, requestInfo *abstractions.RequestInformation, errorMappings abstractions.ErrorMappings) error {
	res, err := m.next(requestInfo)
	if err != nil {
		return err
	}
	return res.Err
}

// DataError returns a Graph error with the given HTTP status and code.
func DataError(status int, code string) error {
	result := odataerrors.NewODataError()
	mainErr := odataerrors.NewMainError()
	mainErr.SetCode(to.Ptr(code))
	mainErr.SetMessage(to.Ptr(code))
	result.SetBackingStore(store.NewInMemoryBackingStore())
	result.SetErrorEscaped(mainErr)
	result.ResponseStatusCode = status
	return result
}
