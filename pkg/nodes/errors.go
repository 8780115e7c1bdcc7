/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package nodes

import (
	"errors"
)

// Reason classifies why a fetch failed.
type Reason string

const (
	ReasonTransport  Reason = "transport"
	ReasonHTTPStatus Reason = "http-status"
	ReasonDecode     Reason = "decode"
)

var (
	// ErrTransport matches fetch failures below HTTP: refused or reset
	// connections, DNS errors, timeouts and cancellation.
	ErrTransport = errors.New("transport failure")
	// ErrHTTPStatus matches responses with a non-2xx status code.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrDecode matches response bodies that are not a valid node array.
	ErrDecode = errors.New("invalid nodes payload")

	errBaseURLRequired = errors.New("nodes base url is required")
	errEmptyBody       = errors.New("empty response body")
	errNotAnArray      = errors.New("expected a JSON array of nodes")
)

// FetchError is the single failure value returned by Fetcher implementations.
type FetchError struct {
	Reason     Reason
	Detail     string
	StatusCode int // set for ReasonHTTPStatus
	Err        error
}

// Error collapses reason and detail into the message shown to users.
func (e *FetchError) Error() string {
	return string(e.Reason) + ": " + e.Detail
}

// Unwrap exposes both the reason sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

func (e *FetchError) sentinel() error {
	switch e.Reason {
	case ReasonTransport:
		return ErrTransport
	case ReasonHTTPStatus:
		return ErrHTTPStatus
	case ReasonDecode:
		return ErrDecode
	default:
		return ErrTransport
	}
}

// ReasonOf reports the fetch failure class of err, if any.
func ReasonOf(err error) (Reason, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason, true
	}

	return "", false
}
