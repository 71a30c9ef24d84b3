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

// Package eodhd implements a client for the EOD Historical Data API
// (eodhistoricaldata.com).
//
// Official documentation is at https://eodhistoricaldata.com/knowledgebase/ .
//
// Each exported function wraps one REST endpoint: EOD quote history,
// realtime quote, dividend and split histories, the exchange list, the
// per-exchange symbol list, and ticker search. A function builds the
// authenticated GET request, issues it through the HTTP client injected into
// the context by fetch.UseClient, and deserializes the JSON (or CSV)
// response into flat records. Series are returned in chronological order.
//
// The API token is carried by the context via UseClient, similar to the
// vendor clients elsewhere in the Stock Parfait family. The client keeps no
// state between calls and performs no retries of its own; failures surface
// as a transport error, a *StatusError for a non-200 response, or a parse
// error for a malformed body.
package eodhd
