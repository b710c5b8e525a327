package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/evonft/go-evonft/util"
)

const defaultHTTPTimeout = time.Second * 30

// NewIPFSShell returns an IPFS shell pointed at IPFS_URL
func NewIPFSShell(url string) *shell.Shell {
	sh := shell.NewShell(url)
	sh.SetTimeout(time.Minute * 2)
	return sh
}

// GetDataFromURI fetches the raw bytes behind a URI. ipfs:// URIs are read
// through the shell; http(s) URIs are fetched directly, with the public
// ipfs.io gateway swapped for Pinata's, which tends to be faster for
// freshly pinned content.
func GetDataFromURI(ctx context.Context, uri string, ipfsClient *shell.Shell) ([]byte, error) {

	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		path := strings.TrimPrefix(uri, "ipfs://")
		reader, err := ipfsClient.Cat(path)
		if err != nil {
			return nil, fmt.Errorf("error getting data from ipfs: %s", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case strings.HasPrefix(uri, "http"):
		url := strings.Replace(uri, "ipfs.io", "gateway.pinata.cloud", 1)

		client := &http.Client{Timeout: defaultHTTPTimeout}
		if deadline, ok := ctx.Deadline(); ok {
			client.Timeout = time.Until(deadline)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		res, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode > 399 || res.StatusCode < 200 {
			return nil, util.ErrHTTP{URL: url, Status: res.StatusCode, Err: util.BodyAsError(res)}
		}

		return io.ReadAll(res.Body)
	default:
		return nil, fmt.Errorf("unknown URI scheme: %s", uri)
	}
}
