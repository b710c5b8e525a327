package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/service/auth"
	"github.com/evonft/go-evonft/service/evolve"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/evonft/go-evonft/service/throttle"
	"github.com/evonft/go-evonft/util"
)

type evolvePromptInput struct {
	NftID      persist.DBID `json:"nftId" binding:"required"`
	MaxNewTags int          `json:"max_new_tags"`
}

type analyzeTagsInput struct {
	BaseTags   []string `json:"base_tags" binding:"required,min=1"`
	MaxNewTags int      `json:"max_new_tags"`
}

// evolvePrompt proposes an evolution for an NFT the caller owns. The
// per-NFT cooldown is held server-side so a client cannot skip it.
func evolvePrompt(nftRepo persist.NftRepository, evolveClient *evolve.Client, locker *throttle.Locker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input evolvePromptInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		userID := auth.GetUserIDFromCtx(c)

		nft, err := nftRepo.GetByID(c, input.NftID)
		if err != nil {
			status := http.StatusInternalServerError
			if _, ok := err.(persist.ErrNftNotFound); ok {
				status = http.StatusNotFound
			}
			util.ErrResponse(c, status, err)
			return
		}
		if nft.OwnerUserID != userID {
			util.ErrResponse(c, http.StatusNotFound, persist.ErrNftNotFound{ID: input.NftID, OwnerUserID: userID})
			return
		}

		if err := locker.Lock(c, "evolve:"+string(input.NftID)); err != nil {
			if _, ok := err.(throttle.ErrThrottleLocked); ok {
				util.ErrResponse(c, http.StatusTooManyRequests, err)
				return
			}
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		maxNewTags := input.MaxNewTags
		if maxNewTags <= 0 {
			maxNewTags = env.GetInt("EVOLVE_MAX_NEW_TAGS")
		}

		proposal, err := evolveClient.Propose(c, evolve.ProposalInput{Nft: nft, MaxNewTags: maxNewTags})
		if err != nil {
			if up, ok := err.(evolve.ErrUpstream); ok {
				c.Error(up)
				c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service failed", "details": up.Details})
				return
			}
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, proposal)
	}
}

// analyzeTags proxies the external analysis verdict through untouched
func analyzeTags(evolveClient *evolve.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input analyzeTagsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		maxNewTags := input.MaxNewTags
		if maxNewTags <= 0 {
			maxNewTags = env.GetInt("EVOLVE_MAX_NEW_TAGS")
		}

		raw, err := evolveClient.AnalyzeTagsRaw(c, input.BaseTags, maxNewTags)
		if err != nil {
			if up, ok := err.(evolve.ErrUpstream); ok {
				c.Error(up)
				c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service failed", "details": up.Details})
				return
			}
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.Data(http.StatusOK, "application/json", raw)
	}
}
