package mongodb

import (
	"context"
	"time"

	"github.com/evonft/go-evonft/service/persist"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const nftsCollName = "nfts"

// NftRepository is a repository that stores NFTs in a MongoDB database
type NftRepository struct {
	mp *storage
}

// NewNftRepository creates a new instance of the NFT mongo repository
func NewNftRepository(db *mongo.Database) *NftRepository {
	return &NftRepository{
		mp: newStorage(db, 0, nftsCollName),
	}
}

// Create inserts an NFT into the database
func (n *NftRepository) Create(pCtx context.Context, pNft persist.Nft) (persist.DBID, error) {
	if pNft.Tags == nil {
		pNft.Tags = []string{}
	}
	if pNft.EvolutionHistory == nil {
		pNft.EvolutionHistory = []persist.EvolutionEntry{}
	}
	return n.mp.insert(pCtx, pNft)
}

// GetByID returns an NFT by its ID
func (n *NftRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.Nft, error) {

	var result persist.Nft
	err := n.mp.findOne(pCtx, bson.M{"_id": pID}, &result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return persist.Nft{}, persist.ErrNftNotFound{ID: pID}
		}
		return persist.Nft{}, err
	}

	return result, nil
}

// GetByOwnerID returns all NFTs owned by the given user, in insertion order
func (n *NftRepository) GetByOwnerID(pCtx context.Context, pOwnerID persist.DBID) ([]persist.Nft, error) {

	opts := options.Find()
	if deadline, ok := pCtx.Deadline(); ok {
		opts.SetMaxTime(time.Until(deadline))
	}

	result := []persist.Nft{}
	if err := n.mp.find(pCtx, bson.M{"owner_user_id": pOwnerID}, &result, opts); err != nil {
		return nil, err
	}

	return result, nil
}

// Evolve archives the NFT's current (picture, tags) into its history and
// overwrites them with the new values. The append and the overwrite are one
// pipeline update so a concurrent commit cannot interleave between them and
// lose a history entry.
func (n *NftRepository) Evolve(pCtx context.Context, pID persist.DBID, pOwnerID persist.DBID, pNewImage string, pNewTags []string) (persist.Nft, error) {

	archived := bson.M{
		"picture":    "$picture",
		"tags":       "$tags",
		"evolved_at": "$$NOW",
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"evolution_history": bson.M{"$concatArrays": bson.A{"$evolution_history", bson.A{archived}}},
		}}},
		{{Key: "$set", Value: bson.M{
			"picture":      pNewImage,
			"tags":         pNewTags,
			"last_updated": "$$NOW",
		}}},
	}

	var result persist.Nft
	err := n.mp.findOneAndUpdate(pCtx, bson.M{"_id": pID, "owner_user_id": pOwnerID}, update, &result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return persist.Nft{}, persist.ErrNftNotFound{ID: pID, OwnerUserID: pOwnerID}
		}
		return persist.Nft{}, err
	}

	return result, nil
}
