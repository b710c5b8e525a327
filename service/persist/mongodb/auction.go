package mongodb

import (
	"context"
	"time"

	"github.com/evonft/go-evonft/service/persist"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const auctionsCollName = "auctions"

// AuctionRepository is a repository that stores auctions in a MongoDB database
type AuctionRepository struct {
	mp *storage
}

// NewAuctionRepository creates a new instance of the auction mongo repository
func NewAuctionRepository(db *mongo.Database) *AuctionRepository {
	return &AuctionRepository{
		mp: newStorage(db, 0, auctionsCollName),
	}
}

// Create inserts an auction into the database
func (a *AuctionRepository) Create(pCtx context.Context, pAuction persist.Auction) (persist.DBID, error) {
	if pAuction.Bids == nil {
		pAuction.Bids = []persist.Bid{}
	}
	return a.mp.insert(pCtx, pAuction)
}

// GetByID returns an auction by its ID
func (a *AuctionRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.Auction, error) {

	var result persist.Auction
	err := a.mp.findOne(pCtx, bson.M{"_id": pID}, &result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return persist.Auction{}, persist.ErrAuctionNotFound{ID: pID}
		}
		return persist.Auction{}, err
	}

	return result, nil
}

// GetAll returns every auction in insertion order
func (a *AuctionRepository) GetAll(pCtx context.Context) ([]persist.Auction, error) {

	opts := options.Find()
	if deadline, ok := pCtx.Deadline(); ok {
		opts.SetMaxTime(time.Until(deadline))
	}

	result := []persist.Auction{}
	if err := a.mp.find(pCtx, bson.M{}, &result, opts); err != nil {
		return nil, err
	}

	return result, nil
}

// GetBySellerID returns all auctions created by the given seller
func (a *AuctionRepository) GetBySellerID(pCtx context.Context, pSellerID persist.DBID) ([]persist.Auction, error) {

	opts := options.Find()
	if deadline, ok := pCtx.Deadline(); ok {
		opts.SetMaxTime(time.Until(deadline))
	}

	result := []persist.Auction{}
	if err := a.mp.find(pCtx, bson.M{"seller_id": pSellerID}, &result, opts); err != nil {
		return nil, err
	}

	return result, nil
}

// PlaceBid appends the bid and raises the current price in one conditional
// update: the filter requires current_price < amount and end_time in the
// future, so two racing bids cannot both be accepted against the same price.
// The losing caller is re-read to report the precise rejection.
func (a *AuctionRepository) PlaceBid(pCtx context.Context, pID persist.DBID, pBid persist.Bid) (persist.Auction, error) {

	now := time.Now()
	filter := bson.M{
		"_id":           pID,
		"current_price": bson.M{"$lt": pBid.Amount},
		"end_time":      bson.M{"$gt": primitive.NewDateTimeFromTime(now)},
	}
	update := bson.D{
		{Key: "$push", Value: bson.M{"bids": pBid}},
		{Key: "$set", Value: bson.M{
			"current_price": pBid.Amount,
			"last_updated":  primitive.NewDateTimeFromTime(now),
		}},
	}

	var result persist.Auction
	err := a.mp.findOneAndUpdate(pCtx, filter, update, &result)
	if err == nil {
		return result, nil
	}
	if err != mongo.ErrNoDocuments {
		return persist.Auction{}, err
	}

	// nothing matched: figure out whether the auction is missing, ended, or
	// the bid simply lost
	auction, getErr := a.GetByID(pCtx, pID)
	if getErr != nil {
		return persist.Auction{}, getErr
	}

	if ruleErr := auction.CanAcceptBid(pBid.Amount, now); ruleErr != nil {
		return persist.Auction{}, ruleErr
	}

	// the conditional update lost a race but the rule passes on the fresh
	// read; report the price that beat us
	return persist.Auction{}, persist.ErrBidTooLow{CurrentPrice: auction.CurrentPrice}
}
