package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/util"
)

// PinataClient pins files and JSON documents through the Pinata pinning API
type PinataClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinJSONBody struct {
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
	PinataContent  interface{}    `json:"pinataContent"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int    `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewPinataClient creates a pinata client from PINATA_API_KEY and
// PINATA_API_SECRET
func NewPinataClient() *PinataClient {
	return &PinataClient{
		httpClient: &http.Client{Timeout: time.Minute},
		baseURL:    env.GetString("PINATA_BASE_URL"),
		apiKey:     env.GetString("PINATA_API_KEY"),
		apiSecret:  env.GetString("PINATA_API_SECRET"),
	}
}

// NewPinataClientWith returns a client pointed at a specific base URL, for
// use against local fakes
func NewPinataClientWith(httpClient *http.Client, baseURL, apiKey, apiSecret string) *PinataClient {
	return &PinataClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey, apiSecret: apiSecret}
}

// PinFile uploads the given bytes to pinata and returns the resulting CID
func (p *PinataClient) PinFile(pCtx context.Context, pName string, pData []byte) (string, error) {

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile("file", pName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(pData); err != nil {
		return "", err
	}

	meta, err := json.Marshal(pinataMetadata{Name: pName})
	if err != nil {
		return "", err
	}
	if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := p.baseURL + "/pinning/pinFileToIPFS"
	req, err := http.NewRequestWithContext(pCtx, http.MethodPost, url, buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	p.setAuthHeaders(req)

	return p.doPin(req)
}

// PinJSON pins an arbitrary JSON document and returns the resulting CID
func (p *PinataClient) PinJSON(pCtx context.Context, pName string, pContent interface{}) (string, error) {

	body, err := json.Marshal(pinJSONBody{
		PinataMetadata: pinataMetadata{Name: pName},
		PinataContent:  pContent,
	})
	if err != nil {
		return "", err
	}

	url := p.baseURL + "/pinning/pinJSONToIPFS"
	req, err := http.NewRequestWithContext(pCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	p.setAuthHeaders(req)

	return p.doPin(req)
}

func (p *PinataClient) setAuthHeaders(req *http.Request) {
	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.apiSecret)
}

func (p *PinataClient) doPin(req *http.Request) (string, error) {

	res, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode > 399 || res.StatusCode < 200 {
		return "", util.ErrHTTP{URL: req.URL.String(), Status: res.StatusCode, Err: util.BodyAsError(res)}
	}

	bs, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	var pinned pinResponse
	if err := json.Unmarshal(bs, &pinned); err != nil {
		return "", fmt.Errorf("error decoding pinata response: %s", err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pinata returned no hash: %s", bs)
	}

	return pinned.IpfsHash, nil
}
