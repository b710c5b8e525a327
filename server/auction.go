package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	auctionservice "github.com/evonft/go-evonft/service/auction"
	"github.com/evonft/go-evonft/service/auth"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/evonft/go-evonft/util"
)

func createAuction(auctionRepo persist.AuctionRepository, nftRepo persist.NftRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input auctionservice.CreateAuctionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		output, err := auctionservice.CreateAuction(c, input, auth.GetUserIDFromCtx(c), auctionRepo, nftRepo)
		if err != nil {
			status := http.StatusInternalServerError
			switch err.(type) {
			case persist.ErrNftNotFound:
				status = http.StatusNotFound
			default:
				if err == auctionservice.ErrInvalidStartingPrice || err == auctionservice.ErrEndTimeInPast {
					status = http.StatusBadRequest
				}
			}
			util.ErrResponse(c, status, err)
			return
		}

		c.JSON(http.StatusCreated, output)
	}
}

func getAuctions(auctionRepo persist.AuctionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		auctions, err := auctionservice.GetAuctions(c, auctionRepo)
		if err != nil {
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"auctions": auctions})
	}
}

func getMyAuctions(auctionRepo persist.AuctionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		auctions, err := auctionservice.GetAuctionsForSeller(c, auth.GetUserIDFromCtx(c), auctionRepo)
		if err != nil {
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"auctions": auctions})
	}
}

func placeBid(auctionRepo persist.AuctionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input auctionservice.PlaceBidInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		auction, err := auctionservice.PlaceBid(c, input, auth.GetUserIDFromCtx(c), auctionRepo)
		if err != nil {
			status := http.StatusInternalServerError
			switch err.(type) {
			case persist.ErrAuctionNotFound:
				status = http.StatusNotFound
			case persist.ErrBidTooLow, persist.ErrAuctionEnded:
				status = http.StatusBadRequest
			}
			util.ErrResponse(c, status, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"auction": auction})
	}
}
