package nft

import (
	"context"
	"errors"

	"github.com/evonft/go-evonft/service/logger"
	"github.com/evonft/go-evonft/service/persist"
)

// ErrInvalidEvolution is returned when a commit arrives without a new image
// or a new tag set
var ErrInvalidEvolution = errors.New("evolution requires a new image and at least one tag")

// CreateNftInput is the payload for creating an NFT
type CreateNftInput struct {
	Name    string   `json:"name"    binding:"required,max_string_length"`
	Picture string   `json:"picture" binding:"required"`
	Tags    []string `json:"tags"`
}

// CreateNftOutput is returned with the new NFT's ID
type CreateNftOutput struct {
	ID persist.DBID `json:"id"`
}

// CommitEvolutionInput is an approved evolution ready to be persisted
type CommitEvolutionInput struct {
	NftID    persist.DBID `json:"nftId"    binding:"required"`
	NewImage string       `json:"newImage"`
	NewTags  []string     `json:"newTags"`
}

// CreateNft persists a new NFT owned by the given user and records it on
// the owner's profile
func CreateNft(pCtx context.Context, pInput CreateNftInput, pUserID persist.DBID, nftRepo persist.NftRepository, userRepo persist.UserRepository) (CreateNftOutput, error) {

	nftID, err := nftRepo.Create(pCtx, persist.Nft{
		OwnerUserID: pUserID,
		Name:        pInput.Name,
		Picture:     pInput.Picture,
		Tags:        pInput.Tags,
	})
	if err != nil {
		return CreateNftOutput{}, err
	}

	// the NFT document is the source of truth for ownership; if this second
	// write fails the profile list lags but my-nfts stays correct
	if err := userRepo.AddNft(pCtx, pUserID, nftID); err != nil {
		logger.For(pCtx).WithError(err).Errorf("failed to add nft %s to user %s", nftID, pUserID)
	}

	return CreateNftOutput{ID: nftID}, nil
}

// GetNftsForUser returns every NFT owned by the given user
func GetNftsForUser(pCtx context.Context, pUserID persist.DBID, nftRepo persist.NftRepository) ([]persist.Nft, error) {
	return nftRepo.GetByOwnerID(pCtx, pUserID)
}

// CommitEvolution applies an owner-approved evolution: the current state is
// archived into the NFT's history and replaced with the new image and tags
func CommitEvolution(pCtx context.Context, pInput CommitEvolutionInput, pUserID persist.DBID, nftRepo persist.NftRepository) (persist.Nft, error) {

	if pInput.NewImage == "" || len(pInput.NewTags) == 0 {
		return persist.Nft{}, ErrInvalidEvolution
	}

	return nftRepo.Evolve(pCtx, pInput.NftID, pUserID, pInput.NewImage, pInput.NewTags)
}
