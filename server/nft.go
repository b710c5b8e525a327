package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/service/auth"
	nftservice "github.com/evonft/go-evonft/service/nft"
	"github.com/evonft/go-evonft/service/persist"
	"github.com/evonft/go-evonft/util"
)

func createNft(nftRepo persist.NftRepository, userRepo persist.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input nftservice.CreateNftInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		output, err := nftservice.CreateNft(c, input, auth.GetUserIDFromCtx(c), nftRepo, userRepo)
		if err != nil {
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusCreated, output)
	}
}

func getMyNfts(nftRepo persist.NftRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		nfts, err := nftservice.GetNftsForUser(c, auth.GetUserIDFromCtx(c), nftRepo)
		if err != nil {
			util.ErrResponse(c, http.StatusInternalServerError, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"nfts": nfts})
	}
}

func commitEvolution(nftRepo persist.NftRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input nftservice.CommitEvolutionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		nft, err := nftservice.CommitEvolution(c, input, auth.GetUserIDFromCtx(c), nftRepo)
		if err != nil {
			status := http.StatusInternalServerError
			switch err.(type) {
			case persist.ErrNftNotFound:
				status = http.StatusNotFound
			default:
				if err == nftservice.ErrInvalidEvolution {
					status = http.StatusBadRequest
				}
			}
			util.ErrResponse(c, status, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"updatedNft": nft})
	}
}
