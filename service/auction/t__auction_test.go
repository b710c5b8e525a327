package auction

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/evonft/go-evonft/service/persist"
)

type memAuctionRepo struct {
	auctions map[persist.DBID]persist.Auction
	order    []persist.DBID
}

func newMemAuctionRepo() *memAuctionRepo {
	return &memAuctionRepo{auctions: map[persist.DBID]persist.Auction{}}
}

func (m *memAuctionRepo) Create(ctx context.Context, a persist.Auction) (persist.DBID, error) {
	a.ID = persist.DBID(ksuid.New().String())
	if a.Bids == nil {
		a.Bids = []persist.Bid{}
	}
	m.auctions[a.ID] = a
	m.order = append(m.order, a.ID)
	return a.ID, nil
}

func (m *memAuctionRepo) GetByID(ctx context.Context, id persist.DBID) (persist.Auction, error) {
	a, ok := m.auctions[id]
	if !ok {
		return persist.Auction{}, persist.ErrAuctionNotFound{ID: id}
	}
	return a, nil
}

func (m *memAuctionRepo) GetAll(ctx context.Context) ([]persist.Auction, error) {
	result := []persist.Auction{}
	for _, id := range m.order {
		result = append(result, m.auctions[id])
	}
	return result, nil
}

func (m *memAuctionRepo) GetBySellerID(ctx context.Context, sellerID persist.DBID) ([]persist.Auction, error) {
	result := []persist.Auction{}
	for _, id := range m.order {
		if m.auctions[id].SellerID == sellerID {
			result = append(result, m.auctions[id])
		}
	}
	return result, nil
}

func (m *memAuctionRepo) PlaceBid(ctx context.Context, id persist.DBID, bid persist.Bid) (persist.Auction, error) {
	a, ok := m.auctions[id]
	if !ok {
		return persist.Auction{}, persist.ErrAuctionNotFound{ID: id}
	}
	if err := a.CanAcceptBid(bid.Amount, time.Now()); err != nil {
		return persist.Auction{}, err
	}
	a.Bids = append(a.Bids, bid)
	a.CurrentPrice = bid.Amount
	m.auctions[id] = a
	return a, nil
}

type memNftRepo struct {
	nfts map[persist.DBID]persist.Nft
}

func (m *memNftRepo) Create(ctx context.Context, n persist.Nft) (persist.DBID, error) {
	m.nfts[n.ID] = n
	return n.ID, nil
}

func (m *memNftRepo) GetByID(ctx context.Context, id persist.DBID) (persist.Nft, error) {
	n, ok := m.nfts[id]
	if !ok {
		return persist.Nft{}, persist.ErrNftNotFound{ID: id}
	}
	return n, nil
}

func (m *memNftRepo) GetByOwnerID(ctx context.Context, ownerID persist.DBID) ([]persist.Nft, error) {
	result := []persist.Nft{}
	for _, n := range m.nfts {
		if n.OwnerUserID == ownerID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *memNftRepo) Evolve(ctx context.Context, id, ownerID persist.DBID, newImage string, newTags []string) (persist.Nft, error) {
	n, ok := m.nfts[id]
	if !ok || n.OwnerUserID != ownerID {
		return persist.Nft{}, persist.ErrNftNotFound{ID: id, OwnerUserID: ownerID}
	}
	evolved := n.Evolved(newImage, newTags, primitive.NewDateTimeFromTime(time.Now()))
	m.nfts[id] = evolved
	return evolved, nil
}

func setupAuction(t *testing.T, repo *memAuctionRepo, startingPrice float64) persist.DBID {
	t.Helper()
	id, err := repo.Create(context.Background(), persist.Auction{
		NftID:         "nft-1",
		SellerID:      "seller-1",
		StartingPrice: startingPrice,
		CurrentPrice:  startingPrice,
		EndTime:       primitive.NewDateTimeFromTime(time.Now().Add(time.Hour)),
	})
	assert.NoError(t, err)
	return id
}

func TestPlaceBid_StrictlyIncreasingPrice(t *testing.T) {
	ctx := context.Background()
	repo := newMemAuctionRepo()
	auctionID := setupAuction(t, repo, 1)

	_, err := PlaceBid(ctx, PlaceBidInput{AuctionID: auctionID, Amount: 1}, "bidder-1", repo)
	assert.IsType(t, persist.ErrBidTooLow{}, err)

	auction, err := PlaceBid(ctx, PlaceBidInput{AuctionID: auctionID, Amount: 1.5}, "bidder-1", repo)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, auction.CurrentPrice)
	assert.Len(t, auction.Bids, 1)

	_, err = PlaceBid(ctx, PlaceBidInput{AuctionID: auctionID, Amount: 1.2}, "bidder-2", repo)
	assert.IsType(t, persist.ErrBidTooLow{}, err)

	// the losing bid left no trace
	auction, err = repo.GetByID(ctx, auctionID)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, auction.CurrentPrice)
	assert.Len(t, auction.Bids, 1)
}

func TestPlaceBid_UnknownAuction_Failure(t *testing.T) {
	repo := newMemAuctionRepo()

	_, err := PlaceBid(context.Background(), PlaceBidInput{AuctionID: "nope", Amount: 5}, "bidder-1", repo)
	assert.IsType(t, persist.ErrAuctionNotFound{}, err)
}

func TestPlaceBid_Ended_Failure(t *testing.T) {
	ctx := context.Background()
	repo := newMemAuctionRepo()
	id, err := repo.Create(ctx, persist.Auction{
		SellerID:      "seller-1",
		StartingPrice: 1,
		CurrentPrice:  1,
		EndTime:       primitive.NewDateTimeFromTime(time.Now().Add(-time.Minute)),
	})
	assert.NoError(t, err)

	_, err = PlaceBid(ctx, PlaceBidInput{AuctionID: id, Amount: 5}, "bidder-1", repo)
	assert.IsType(t, persist.ErrAuctionEnded{}, err)
}

func TestCreateAuction_Validation(t *testing.T) {
	ctx := context.Background()
	auctionRepo := newMemAuctionRepo()
	nftRepo := &memNftRepo{nfts: map[persist.DBID]persist.Nft{
		"nft-1": {ID: "nft-1", OwnerUserID: "owner-1"},
	}}

	_, err := CreateAuction(ctx, CreateAuctionInput{NftID: "nft-1", StartingPrice: 0, EndTime: time.Now().Add(time.Hour)}, "owner-1", auctionRepo, nftRepo)
	assert.Equal(t, ErrInvalidStartingPrice, err)

	_, err = CreateAuction(ctx, CreateAuctionInput{NftID: "nft-1", StartingPrice: 1, EndTime: time.Now().Add(-time.Hour)}, "owner-1", auctionRepo, nftRepo)
	assert.Equal(t, ErrEndTimeInPast, err)

	// callers cannot list NFTs they do not own
	_, err = CreateAuction(ctx, CreateAuctionInput{NftID: "nft-1", StartingPrice: 1, EndTime: time.Now().Add(time.Hour)}, "someone-else", auctionRepo, nftRepo)
	assert.IsType(t, persist.ErrNftNotFound{}, err)

	out, err := CreateAuction(ctx, CreateAuctionInput{NftID: "nft-1", StartingPrice: 1, EndTime: time.Now().Add(time.Hour)}, "owner-1", auctionRepo, nftRepo)
	assert.NoError(t, err)

	auction, err := auctionRepo.GetByID(ctx, out.ID)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), auction.CurrentPrice)
	assert.Equal(t, persist.DBID("owner-1"), auction.SellerID)
}

func TestGetAuctionsForSeller_FiltersBySeller(t *testing.T) {
	ctx := context.Background()
	repo := newMemAuctionRepo()
	setupAuction(t, repo, 1)
	_, err := repo.Create(ctx, persist.Auction{SellerID: "seller-2", StartingPrice: 2, CurrentPrice: 2})
	assert.NoError(t, err)

	mine, err := GetAuctionsForSeller(ctx, "seller-1", repo)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := GetAuctions(ctx, repo)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}
