package auction

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/evonft/go-evonft/service/persist"
)

var (
	// ErrInvalidStartingPrice is returned when an auction is created with a
	// non-positive starting price
	ErrInvalidStartingPrice = errors.New("starting price must be greater than zero")

	// ErrEndTimeInPast is returned when an auction's end time is not in the
	// future
	ErrEndTimeInPast = errors.New("end time must be in the future")
)

// CreateAuctionInput is the payload for listing an NFT for auction
type CreateAuctionInput struct {
	NftID         persist.DBID `json:"nftId"         binding:"required"`
	StartingPrice float64      `json:"startingPrice" binding:"required"`
	EndTime       time.Time    `json:"endTime"       binding:"required"`
}

// CreateAuctionOutput is returned with the new auction's ID
type CreateAuctionOutput struct {
	ID persist.DBID `json:"id"`
}

// PlaceBidInput is the payload for bidding on an auction
type PlaceBidInput struct {
	AuctionID persist.DBID `json:"auctionId" binding:"required"`
	Amount    float64      `json:"bidAmount" binding:"required"`
}

// CreateAuction lists an NFT for sale. The caller must own the NFT, the
// starting price must be positive, and the end time must be in the future.
func CreateAuction(pCtx context.Context, pInput CreateAuctionInput, pUserID persist.DBID, auctionRepo persist.AuctionRepository, nftRepo persist.NftRepository) (CreateAuctionOutput, error) {

	if pInput.StartingPrice <= 0 {
		return CreateAuctionOutput{}, ErrInvalidStartingPrice
	}
	if !pInput.EndTime.After(time.Now()) {
		return CreateAuctionOutput{}, ErrEndTimeInPast
	}

	nft, err := nftRepo.GetByID(pCtx, pInput.NftID)
	if err != nil {
		return CreateAuctionOutput{}, err
	}
	if nft.OwnerUserID != pUserID {
		return CreateAuctionOutput{}, persist.ErrNftNotFound{ID: pInput.NftID, OwnerUserID: pUserID}
	}

	auctionID, err := auctionRepo.Create(pCtx, persist.Auction{
		NftID:         pInput.NftID,
		SellerID:      pUserID,
		StartingPrice: pInput.StartingPrice,
		CurrentPrice:  pInput.StartingPrice,
		EndTime:       primitive.NewDateTimeFromTime(pInput.EndTime),
	})
	if err != nil {
		return CreateAuctionOutput{}, err
	}

	return CreateAuctionOutput{ID: auctionID}, nil
}

// GetAuctions returns every auction
func GetAuctions(pCtx context.Context, auctionRepo persist.AuctionRepository) ([]persist.Auction, error) {
	return auctionRepo.GetAll(pCtx)
}

// GetAuctionsForSeller returns the auctions created by the given user
func GetAuctionsForSeller(pCtx context.Context, pUserID persist.DBID, auctionRepo persist.AuctionRepository) ([]persist.Auction, error) {
	return auctionRepo.GetBySellerID(pCtx, pUserID)
}

// PlaceBid records a bid on an auction. The bid must strictly exceed the
// current price and arrive before the end time; the repository enforces both
// atomically so concurrent bids serialize on the price.
func PlaceBid(pCtx context.Context, pInput PlaceBidInput, pUserID persist.DBID, auctionRepo persist.AuctionRepository) (persist.Auction, error) {

	return auctionRepo.PlaceBid(pCtx, pInput.AuctionID, persist.Bid{
		Bidder:    pUserID,
		Amount:    pInput.Amount,
		Timestamp: primitive.NewDateTimeFromTime(time.Now()),
	})
}
