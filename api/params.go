// Copyright 2026 Blink Labs Software
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

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultEventLimit = 100
	MaxEventLimit     = 1000
)

var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidQueryParam = errors.New("invalid query parameter")
)

// parseAddress parses a hex account identity from a path value
func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(value), nil
}

// parseUint parses an optional unsigned query parameter. The second return
// value is false when the parameter is absent.
func parseUint(r *http.Request, name string) (uint64, bool, error) {
	param := r.URL.Query().Get(name)
	if param == "" {
		return 0, false, nil
	}
	ret, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, false, ErrInvalidQueryParam
	}
	return ret, true, nil
}

// EventParams contains parsed journal paging values
type EventParams struct {
	From  uint64
	Limit int
}

// ParseEventParams parses the from and limit query parameters and applies
// defaults and bounds clamping
func ParseEventParams(r *http.Request) (EventParams, error) {
	params := EventParams{
		From:  1,
		Limit: DefaultEventLimit,
	}
	from, ok, err := parseUint(r, "from")
	if err != nil {
		return EventParams{}, err
	}
	if ok {
		params.From = from
	}
	limit, ok, err := parseUint(r, "limit")
	if err != nil {
		return EventParams{}, err
	}
	if ok {
		params.Limit = int(min(limit, MaxEventLimit)) // #nosec G115
	}
	// Bounds clamping
	if params.From < 1 {
		params.From = 1
	}
	if params.Limit < 1 {
		params.Limit = 1
	}
	return params, nil
}
