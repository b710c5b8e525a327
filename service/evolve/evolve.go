package evolve

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/evonft/go-evonft/service/rpc"
)

// Strength is how far the image model is allowed to drift from the source
// image. Low enough that evolved art stays recognizable.
const Strength = "0.35"

const promptTemplate = "Visually stunning masterpiece titled '%s'. A %s creation embodying styles of %s. High detail, captivating aesthetic, digital evolution. It should be an evolved, mature version of the character with an aura of mystic power and strength, retaining some of the original features but showing a more powerful, aged, and wise appearance, with a slight weathered charm."

// ErrUpstream represents a failure reported by the analysis or image model.
// Details carries the upstream body, decoded when it was JSON.
type ErrUpstream struct {
	URL     string
	Status  int
	Details interface{}
}

func (e ErrUpstream) Error() string {
	return fmt.Sprintf("upstream %s returned %d: %v", e.URL, e.Status, e.Details)
}

// Client talks to the tag-analysis and image-generation models
type Client struct {
	httpClient  *http.Client
	analysisURL string
	imageGenURL string
	ipfsClient  *shell.Shell
}

// AnalysisResult is the analysis model's verdict for a single base tag
type AnalysisResult struct {
	BaseTag       string   `json:"base_tag"`
	GeneratedTags []string `json:"generated_tags"`
}

// Proposal is a fully prepared evolution awaiting the owner's approval
type Proposal struct {
	Prompt        string   `json:"prompt"`
	ImageData     string   `json:"imageData"`
	GeneratedTags []string `json:"generatedTags"`
}

// NewClient creates an evolve client from ANALYSIS_URL and IMAGE_GEN_URL
func NewClient(ipfsClient *shell.Shell) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: time.Minute * 3},
		analysisURL: env.GetString("ANALYSIS_URL"),
		imageGenURL: env.GetString("IMAGE_GEN_URL"),
		ipfsClient:  ipfsClient,
	}
}

// NewClientWith returns a client pointed at specific model URLs, for use
// against local fakes
func NewClientWith(httpClient *http.Client, analysisURL, imageGenURL string, ipfsClient *shell.Shell) *Client {
	return &Client{httpClient: httpClient, analysisURL: analysisURL, imageGenURL: imageGenURL, ipfsClient: ipfsClient}
}

// AnalyzeTags asks the analysis model to expand a single base tag into up to
// maxNewTags related tags
func (c *Client) AnalyzeTags(pCtx context.Context, pBaseTag string, pMaxNewTags int) (AnalysisResult, error) {

	body := map[string]interface{}{
		"base_tag":     pBaseTag,
		"max_new_tags": pMaxNewTags,
	}

	bs, err := c.postJSON(pCtx, c.analysisURL, body)
	if err != nil {
		return AnalysisResult{}, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(bs, &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("error decoding analysis response: %s", err)
	}
	if result.BaseTag == "" {
		result.BaseTag = pBaseTag
	}

	return result, nil
}

// AnalyzeTagsRaw forwards a multi-tag analysis request and returns the
// model's body untouched, for endpoints that proxy the verdict through
func (c *Client) AnalyzeTagsRaw(pCtx context.Context, pBaseTags []string, pMaxNewTags int) (json.RawMessage, error) {

	body := map[string]interface{}{
		"base_tags":    pBaseTags,
		"max_new_tags": pMaxNewTags,
	}

	bs, err := c.postJSON(pCtx, c.analysisURL, body)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(bs), nil
}

// SynthesizePrompt renders the image-model prompt for an NFT's evolution
func SynthesizePrompt(pName, pBaseTag string, pGeneratedTags []string) string {
	styles := strings.Join(pGeneratedTags, ", ")
	if styles == "" {
		styles = pBaseTag
	}
	return fmt.Sprintf(promptTemplate, pName, pBaseTag, styles)
}

// TransformImage sends the source image and prompt to the img2img model and
// returns the generated image bytes
func (c *Client) TransformImage(pCtx context.Context, pPrompt string, pImage []byte) ([]byte, error) {

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if err := writer.WriteField("prompt", pPrompt); err != nil {
		return nil, err
	}
	if err := writer.WriteField("strength", Strength); err != nil {
		return nil, err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="init_image"; filename="image.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(pImage); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(pCtx, http.MethodPost, c.imageGenURL, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode > 399 || res.StatusCode < 200 {
		return nil, newErrUpstream(c.imageGenURL, res)
	}

	return io.ReadAll(res.Body)
}

// ProposalInput is everything Propose needs to know about the NFT being
// evolved
type ProposalInput struct {
	Nft        persist.Nft
	MaxNewTags int
}

// Propose runs the full evolution pipeline for an NFT without committing
// anything: analyze its first tag, synthesize a prompt, fetch the current
// artwork, and transform it. The result is returned to the owner for
// approval.
func (c *Client) Propose(pCtx context.Context, pInput ProposalInput) (Proposal, error) {

	if len(pInput.Nft.Tags) == 0 {
		return Proposal{}, fmt.Errorf("nft %s has no tags to evolve from", pInput.Nft.ID)
	}
	baseTag := pInput.Nft.Tags[0]

	analysis, err := c.AnalyzeTags(pCtx, baseTag, pInput.MaxNewTags)
	if err != nil {
		return Proposal{}, err
	}

	prompt := SynthesizePrompt(pInput.Nft.Name, baseTag, analysis.GeneratedTags)

	source, err := rpc.GetDataFromURI(pCtx, pInput.Nft.Picture, c.ipfsClient)
	if err != nil {
		return Proposal{}, fmt.Errorf("error fetching source image: %s", err)
	}

	generated, err := c.TransformImage(pCtx, prompt, source)
	if err != nil {
		return Proposal{}, err
	}

	return Proposal{
		Prompt:        prompt,
		ImageData:     base64.StdEncoding.EncodeToString(generated),
		GeneratedTags: analysis.GeneratedTags,
	}, nil
}

func (c *Client) postJSON(pCtx context.Context, pURL string, pBody interface{}) ([]byte, error) {

	bs, err := json.Marshal(pBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(pCtx, http.MethodPost, pURL, bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode > 399 || res.StatusCode < 200 {
		return nil, newErrUpstream(pURL, res)
	}

	return io.ReadAll(res.Body)
}

// newErrUpstream captures an error body, keeping it structured when the
// upstream spoke JSON and falling back to the raw text otherwise
func newErrUpstream(pURL string, res *http.Response) ErrUpstream {
	body, _ := io.ReadAll(res.Body)

	var details interface{}
	if err := json.Unmarshal(body, &details); err != nil {
		details = string(body)
	}

	return ErrUpstream{URL: pURL, Status: res.StatusCode, Details: details}
}
