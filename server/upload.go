package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/service/evolve"
	"github.com/evonft/go-evonft/service/logger"
	"github.com/evonft/go-evonft/service/rpc"
	"github.com/evonft/go-evonft/util"
)

type nftMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  interface{} `json:"attributes,omitempty"`
}

type uploadImageOutput struct {
	Success     bool            `json:"success"`
	ImageCid    string          `json:"imageCid"`
	MetadataCid string          `json:"metadataCid"`
	MetadataURI string          `json:"metadataUri"`
	Metadata    nftMetadata     `json:"metadata"`
	Mint        *rpc.MintResult `json:"mint,omitempty"`
	Analysis    json.RawMessage `json:"analysis,omitempty"`
}

// uploadImage pins the uploaded file and its ERC-721-style metadata, then
// makes two best-effort calls: the external mint relay and tag analysis.
// Neither can fail the request; their results are attached when available.
func uploadImage(pinata *rpc.PinataClient, mint *rpc.MintClient, evolveClient *evolve.Client) gin.HandlerFunc {
	return func(c *gin.Context) {

		fileHeader, err := c.FormFile("file")
		if err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		name := c.PostForm("name")
		if name == "" {
			name = fileHeader.Filename
		}

		imageCid, err := pinata.PinFile(c, name, data)
		if err != nil {
			util.ErrResponse(c, http.StatusBadGateway, err)
			return
		}

		metadata := nftMetadata{
			Name:        name,
			Description: c.PostForm("description"),
			Image:       "ipfs://" + imageCid,
			Attributes:  parseAttributes(c.PostForm("attributes")),
		}

		metadataCid, err := pinata.PinJSON(c, name+"-metadata", metadata)
		if err != nil {
			util.ErrResponse(c, http.StatusBadGateway, err)
			return
		}

		output := uploadImageOutput{
			Success:     true,
			ImageCid:    imageCid,
			MetadataCid: metadataCid,
			MetadataURI: "ipfs://" + metadataCid,
			Metadata:    metadata,
		}

		if result, err := mint.Mint(c, output.MetadataURI); err != nil {
			logger.For(c).WithError(err).Error("mint failed for uploaded image")
		} else {
			output.Mint = &result
		}

		if tags := parseTags(c.PostForm("tags")); len(tags) > 0 {
			if analysis, err := evolveClient.AnalyzeTagsRaw(c, tags, env.GetInt("EVOLVE_MAX_NEW_TAGS")); err != nil {
				logger.For(c).WithError(err).Error("tag analysis failed for uploaded image")
			} else {
				output.Analysis = analysis
			}
		}

		c.JSON(http.StatusOK, output)
	}
}

// parseAttributes accepts either a JSON value or nothing
func parseAttributes(raw string) interface{} {
	if raw == "" {
		return nil
	}
	var attrs interface{}
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return raw
	}
	return attrs
}

// parseTags accepts a JSON string array with a comma-separated fallback
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return tags
	}
	return util.SplitAndTrim(raw, ",")
}
