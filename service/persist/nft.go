package persist

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nft represents a collectible with an image and tags, mutable via evolution
type Nft struct {
	Version      int64              `bson:"version"      json:"version"` // schema version for this model
	ID           DBID               `bson:"_id"          json:"id"`
	CreationTime primitive.DateTime `bson:"created_at"   json:"created_at"`
	Deleted      bool               `bson:"deleted"      json:"-"`
	LastUpdated  primitive.DateTime `bson:"last_updated" json:"last_updated"`

	OwnerUserID DBID   `bson:"owner_user_id" json:"owner_user_id"`
	Name        string `bson:"name"          json:"name"`

	// content-addressed locator of the current image, e.g. ipfs://CID or a
	// gateway URL
	Picture string `bson:"picture" json:"picture"`

	// current tag set. Ordered, duplicates permitted.
	Tags []string `bson:"tags" json:"tags"`

	// set when the external mint service succeeded for this asset
	TxHash  string `bson:"tx_hash,omitempty"  json:"tx_hash,omitempty"`
	TokenID string `bson:"token_id,omitempty" json:"token_id,omitempty"`

	// prior (picture, tags) states, oldest first. Append-only.
	EvolutionHistory []EvolutionEntry `bson:"evolution_history" json:"evolution_history"`
}

// EvolutionEntry is one archived prior state of an NFT
type EvolutionEntry struct {
	Picture   string             `bson:"picture"    json:"picture"`
	Tags      []string           `bson:"tags"       json:"tags"`
	EvolvedAt primitive.DateTime `bson:"evolved_at" json:"evolved_at"`
}

// Evolved returns the NFT after committing a new (image, tags) state: the
// current state is appended to history and then overwritten. This is the
// canonical transition; the mongo repository expresses the same change as a
// single pipeline update so the append and the overwrite cannot interleave
// with a concurrent commit.
func (n Nft) Evolved(newImage string, newTags []string, at primitive.DateTime) Nft {
	n.EvolutionHistory = append(n.EvolutionHistory, EvolutionEntry{
		Picture:   n.Picture,
		Tags:      n.Tags,
		EvolvedAt: at,
	})
	n.Picture = newImage
	n.Tags = newTags
	n.LastUpdated = at
	return n
}

// NftRepository represents the interface for interacting with the persisted state of NFTs
type NftRepository interface {
	Create(context.Context, Nft) (DBID, error)
	GetByID(context.Context, DBID) (Nft, error)
	GetByOwnerID(context.Context, DBID) ([]Nft, error)
	// Evolve atomically archives the NFT's current (picture, tags) into its
	// history and overwrites them with the given values, scoped to the given
	// owner. Returns the updated NFT.
	Evolve(ctx context.Context, id DBID, ownerID DBID, newImage string, newTags []string) (Nft, error)
}

// ErrNftNotFound is returned when an NFT is not found, or is not owned by the
// user an operation was scoped to
type ErrNftNotFound struct {
	ID          DBID
	OwnerUserID DBID
}

func (e ErrNftNotFound) Error() string {
	return fmt.Sprintf("nft not found: ID: %s, owner: %s", e.ID, e.OwnerUserID)
}
