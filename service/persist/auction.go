package persist

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auction represents a time-bounded sale of one NFT with a strictly
// increasing price rule
type Auction struct {
	Version      int64              `bson:"version"      json:"version"` // schema version for this model
	ID           DBID               `bson:"_id"          json:"id"`
	CreationTime primitive.DateTime `bson:"created_at"   json:"created_at"`
	Deleted      bool               `bson:"deleted"      json:"-"`
	LastUpdated  primitive.DateTime `bson:"last_updated" json:"last_updated"`

	NftID    DBID `bson:"nft_id"    json:"nft_id"`
	SellerID DBID `bson:"seller_id" json:"seller_id"`

	StartingPrice float64            `bson:"starting_price" json:"starting_price"`
	CurrentPrice  float64            `bson:"current_price"  json:"current_price"`
	EndTime       primitive.DateTime `bson:"end_time"       json:"end_time"`

	// accepted bids in acceptance order
	Bids []Bid `bson:"bids" json:"bids"`
}

// Bid is one accepted bid on an auction
type Bid struct {
	Bidder    DBID               `bson:"bidder"    json:"bidder"`
	Amount    float64            `bson:"amount"    json:"amount"`
	Timestamp primitive.DateTime `bson:"timestamp" json:"timestamp"`
}

// CanAcceptBid reports whether a bid of the given amount is acceptable at the
// given time: the auction must not have ended and the amount must strictly
// exceed the current price (ties rejected). The mongo repository encodes the
// same conditions in its update filter so acceptance is atomic; this method
// is the single place the rule is written down.
func (a Auction) CanAcceptBid(amount float64, now time.Time) error {
	if !now.Before(a.EndTime.Time()) {
		return ErrAuctionEnded{ID: a.ID, EndTime: a.EndTime.Time()}
	}
	if amount <= a.CurrentPrice {
		return ErrBidTooLow{CurrentPrice: a.CurrentPrice}
	}
	return nil
}

// AuctionRepository represents the interface for interacting with the persisted state of auctions
type AuctionRepository interface {
	Create(context.Context, Auction) (DBID, error)
	GetByID(context.Context, DBID) (Auction, error)
	GetAll(context.Context) ([]Auction, error)
	GetBySellerID(context.Context, DBID) ([]Auction, error)
	// PlaceBid atomically appends the bid and raises the current price,
	// provided the bid amount strictly exceeds the current price and the
	// auction has not ended. Returns the updated auction.
	PlaceBid(context.Context, DBID, Bid) (Auction, error)
}

// ErrAuctionNotFound is returned when an auction id does not resolve
type ErrAuctionNotFound struct {
	ID DBID
}

func (e ErrAuctionNotFound) Error() string {
	return fmt.Sprintf("auction not found: ID: %s", e.ID)
}

// ErrBidTooLow is returned when a bid does not strictly exceed the current price
type ErrBidTooLow struct {
	CurrentPrice float64
}

func (e ErrBidTooLow) Error() string {
	return fmt.Sprintf("bid too low: current price is %v", e.CurrentPrice)
}

// ErrAuctionEnded is returned when a bid arrives after the auction's end time
type ErrAuctionEnded struct {
	ID      DBID
	EndTime time.Time
}

func (e ErrAuctionEnded) Error() string {
	return fmt.Sprintf("auction %s ended at %s", e.ID, e.EndTime.Format(time.RFC3339))
}
