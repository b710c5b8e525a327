package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/util"
)

// MintClient submits metadata URIs to the minting relay, which holds the
// signing key and pays gas
type MintClient struct {
	httpClient *http.Client
	mintURL    string
	recipient  string
}

type mintRequest struct {
	To          string `json:"to"`
	MetadataURI string `json:"metadataUri"`
}

// MintResult is the relay's response, passed through to callers verbatim
type MintResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
	TokenID string `json:"tokenId"`
}

// NewMintClient creates a mint client from MINT_URL and MINT_RECIPIENT
func NewMintClient() *MintClient {
	return &MintClient{
		httpClient: &http.Client{Timeout: time.Minute * 2},
		mintURL:    env.GetString("MINT_URL"),
		recipient:  env.GetString("MINT_RECIPIENT"),
	}
}

// NewMintClientWith returns a client pointed at a specific relay URL
func NewMintClientWith(httpClient *http.Client, mintURL, recipient string) *MintClient {
	return &MintClient{httpClient: httpClient, mintURL: mintURL, recipient: recipient}
}

// Mint asks the relay to mint a token whose metadata lives at the given URI
func (m *MintClient) Mint(pCtx context.Context, pMetadataURI string) (MintResult, error) {

	body, err := json.Marshal(mintRequest{To: m.recipient, MetadataURI: pMetadataURI})
	if err != nil {
		return MintResult{}, err
	}

	req, err := http.NewRequestWithContext(pCtx, http.MethodPost, m.mintURL, bytes.NewReader(body))
	if err != nil {
		return MintResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return MintResult{}, err
	}
	defer res.Body.Close()

	if res.StatusCode > 399 || res.StatusCode < 200 {
		return MintResult{}, util.ErrHTTP{URL: m.mintURL, Status: res.StatusCode, Err: util.BodyAsError(res)}
	}

	var result MintResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return MintResult{}, err
	}

	return result, nil
}
