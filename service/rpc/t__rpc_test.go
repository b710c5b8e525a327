package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPinFile_Success(t *testing.T) {
	pinner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("pinata_api_key"))
		assert.Equal(t, "test-secret", r.Header.Get("pinata_secret_api_key"))

		assert.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		assert.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "my-art", header.Filename)

		var meta pinataMetadata
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("pinataMetadata")), &meta))
		assert.Equal(t, "my-art", meta.Name)

		json.NewEncoder(w).Encode(pinResponse{IpfsHash: "QmFileCid"})
	}))
	defer pinner.Close()

	client := NewPinataClientWith(http.DefaultClient, pinner.URL, "test-key", "test-secret")

	cid, err := client.PinFile(context.Background(), "my-art", []byte("image-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "QmFileCid", cid)
}

func TestPinJSON_Success(t *testing.T) {
	pinner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pinning/pinJSONToIPFS", r.URL.Path)

		var body pinJSONBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "my-art-metadata", body.PinataMetadata.Name)

		json.NewEncoder(w).Encode(pinResponse{IpfsHash: "QmJsonCid"})
	}))
	defer pinner.Close()

	client := NewPinataClientWith(http.DefaultClient, pinner.URL, "k", "s")

	cid, err := client.PinJSON(context.Background(), "my-art-metadata", map[string]string{"name": "my-art"})
	assert.NoError(t, err)
	assert.Equal(t, "QmJsonCid", cid)
}

func TestPinFile_UpstreamError(t *testing.T) {
	pinner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid credentials"}`)
	}))
	defer pinner.Close()

	client := NewPinataClientWith(http.DefaultClient, pinner.URL, "bad", "bad")

	_, err := client.PinFile(context.Background(), "my-art", []byte("image-bytes"))
	assert.Error(t, err)
}

func TestMint_Success(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body mintRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0xabc", body.To)
		assert.Equal(t, "ipfs://QmMeta", body.MetadataURI)

		json.NewEncoder(w).Encode(MintResult{Success: true, TxHash: "0xdeadbeef", TokenID: "42"})
	}))
	defer relay.Close()

	client := NewMintClientWith(http.DefaultClient, relay.URL, "0xabc")

	result, err := client.Mint(context.Background(), "ipfs://QmMeta")
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0xdeadbeef", result.TxHash)
	assert.Equal(t, "42", result.TokenID)
}

func TestGetDataFromURI_HTTP(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer source.Close()

	data, err := GetDataFromURI(context.Background(), source.URL, nil)
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestGetDataFromURI_UnknownScheme(t *testing.T) {
	_, err := GetDataFromURI(context.Background(), "ftp://nope", nil)
	assert.Error(t, err)
}
