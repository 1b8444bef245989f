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
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/blinklabs-io/quorum/governance"
	"github.com/blinklabs-io/quorum/token"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeQueryError maps a query failure to a response. Unexpected failures
// are logged and reported as internal errors.
func (a *API) writeQueryError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, governance.ErrProposalNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, token.ErrFutureSequenceQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("failed to get "+what, "error", err)
		writeError(
			w,
			http.StatusInternalServerError,
			"failed to retrieve "+what,
		)
	}
}

func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{IsHealthy: true})
}

func (a *API) handleTip(w http.ResponseWriter, _ *http.Request) {
	seq, err := a.node.Tip()
	if err != nil {
		a.writeQueryError(w, "tip", err)
		return
	}
	writeJSON(w, http.StatusOK, TipResponse{Sequence: seq})
}

func (a *API) handleToken(w http.ResponseWriter, _ *http.Request) {
	info := a.node.TokenInfo()
	supply, err := a.node.TotalSupply()
	if err != nil {
		a.writeQueryError(w, "total supply", err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		Address:     info.Address.Hex(),
		Owner:       info.Owner.Hex(),
		TotalSupply: amount(supply),
	})
}

// handleSupply handles GET /api/v1/supply with an optional at sequence
func (a *API) handleSupply(w http.ResponseWriter, r *http.Request) {
	at, ok, err := parseUint(r, "at")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at parameter")
		return
	}
	var supply *big.Int
	var resp SupplyResponse
	if ok {
		supply, err = a.node.PastTotalSupply(r.Context(), at)
		resp.At = &at
	} else {
		supply, err = a.node.TotalSupply()
	}
	if err != nil {
		a.writeQueryError(w, "total supply", err)
		return
	}
	resp.TotalSupply = amount(supply)
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	at, ok, err := parseUint(r, "at")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at parameter")
		return
	}
	info, err := a.node.Account(account)
	if err != nil {
		a.writeQueryError(w, "account", err)
		return
	}
	resp := AccountResponse{
		Address:     account.Hex(),
		Balance:     amount(info.Balance),
		Delegate:    info.Delegate.Hex(),
		Votes:       amount(info.Votes),
		Checkpoints: info.Checkpoints,
	}
	if ok {
		past, err := a.node.PastVotes(r.Context(), account, at)
		if err != nil {
			a.writeQueryError(w, "past votes", err)
			return
		}
		pastVotes := amount(past)
		resp.At = &at
		resp.PastVotes = &pastVotes
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleGovernanceParams(w http.ResponseWriter, _ *http.Request) {
	params, err := a.node.GovernanceParams()
	if err != nil {
		a.writeQueryError(w, "governance parameters", err)
		return
	}
	writeJSON(w, http.StatusOK, GovernanceParamsResponse{
		TokenAddress:       params.TokenAddress.Hex(),
		Authority:          params.Authority.Hex(),
		QuorumNumerator:    params.QuorumNumerator,
		QuorumDenominator:  governance.QuorumDenominator,
		VotingPeriodLength: params.VotingPeriodLength,
	})
}

func proposalResponse(p governance.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:           p.ID,
		Proposer:     p.Proposer.Hex(),
		Description:  p.Description,
		Snapshot:     p.Snapshot,
		Start:        p.Start,
		End:          p.End,
		ForVotes:     amount(p.ForVotes),
		AgainstVotes: amount(p.AgainstVotes),
		Canceled:     p.Canceled,
		Executed:     p.Executed,
	}
}

// handleProposals handles GET /api/v1/proposals. States are not computed
// for the listing.
func (a *API) handleProposals(w http.ResponseWriter, _ *http.Request) {
	proposals, err := a.node.Proposals()
	if err != nil {
		a.writeQueryError(w, "proposals", err)
		return
	}
	ret := make([]ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		ret = append(ret, proposalResponse(p))
	}
	writeJSON(w, http.StatusOK, ret)
}

func parseProposalID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(r.PathValue("id"), 10, 64)
}

func (a *API) handleProposal(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	proposal, err := a.node.Proposal(id)
	if err != nil {
		a.writeQueryError(w, "proposal", err)
		return
	}
	state, err := a.node.ProposalState(r.Context(), id)
	if err != nil {
		a.writeQueryError(w, "proposal state", err)
		return
	}
	resp := proposalResponse(proposal)
	resp.State = state.String()
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	voter, err := parseAddress(r.PathValue("voter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, ok, err := a.node.Receipt(id, voter)
	if err != nil {
		a.writeQueryError(w, "receipt", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no vote recorded")
		return
	}
	writeJSON(w, http.StatusOK, ReceiptResponse{
		ProposalID: receipt.ProposalID,
		Voter:      receipt.Voter.Hex(),
		Support:    receipt.Support,
		Weight:     amount(receipt.Weight),
		Sequence:   receipt.Sequence,
	})
}

// handleEvents handles GET /api/v1/events and pages through the journal
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	params, err := ParseEventParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := a.node.Events(params.From, params.Limit)
	if err != nil {
		a.writeQueryError(w, "events", err)
		return
	}
	ret := make([]EventResponse, 0, len(entries))
	for _, entry := range entries {
		evt, err := entry.Event()
		if err != nil {
			a.writeQueryError(w, "events", err)
			return
		}
		ret = append(ret, EventResponse{
			Index:     entry.Index,
			Type:      string(evt.Type),
			Sequence:  evt.Sequence,
			Timestamp: evt.Timestamp,
			Data:      evt.Data,
		})
	}
	if len(entries) > 0 {
		w.Header().Set(
			"X-Next-From",
			strconv.FormatUint(entries[len(entries)-1].Index+1, 10),
		)
	}
	writeJSON(w, http.StatusOK, ret)
}
