// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eodhd

import (
	"errors"
	"fmt"
)

// StatusError is returned when the server responds with a non-200 status,
// e.g. 401/403 for an invalid token or 429 for an exceeded rate limit. It
// carries the status code and the response body verbatim.
type StatusError struct {
	Code   int    // HTTP status code, e.g. 403
	Status string // HTTP status line, e.g. "403 Forbidden"
	Body   string // response body, usually the vendor's error message
}

var _ error = &StatusError{}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("eodhd: HTTP %s", e.Status)
	}
	return fmt.Sprintf("eodhd: HTTP %s: %s", e.Status, e.Body)
}

// StatusCode extracts the HTTP status code from an error returned by this
// package. The second value is false if the error is not a *StatusError.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
