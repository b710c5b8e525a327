package persist

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can own and auction NFTs
type User struct {
	Version      int64              `bson:"version"      json:"version"` // schema version for this model
	ID           DBID               `bson:"_id"          json:"id"`
	CreationTime primitive.DateTime `bson:"created_at"   json:"created_at"`
	Deleted      bool               `bson:"deleted"      json:"-"`
	LastUpdated  primitive.DateTime `bson:"last_updated" json:"last_updated"`

	Name               string `bson:"name"                json:"name"`
	Username           string `bson:"username"            json:"username"`
	UsernameIdempotent string `bson:"username_idempotent" json:"-"`
	Email              string `bson:"email"               json:"email"`
	PasswordHash       string `bson:"password_hash"       json:"-"`

	// NFTs owned by this user, by reference. The NFT document also carries
	// owner_user_id; this list exists to serve the profile view in insertion
	// order.
	Nfts []DBID `bson:"nfts" json:"nfts"`
}

// UserRepository represents the interface for interacting with the persisted state of users
type UserRepository interface {
	Create(context.Context, User) (DBID, error)
	GetByID(context.Context, DBID) (User, error)
	GetByEmail(context.Context, string) (User, error)
	ExistsByEmail(context.Context, string) (bool, error)
	AddNft(context.Context, DBID, DBID) error
}

// ErrUserNotFound is returned when a user is not found
type ErrUserNotFound struct {
	UserID   DBID
	Email    string
	Username string
}

func (e ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: ID: %s, email: %s, username: %s", e.UserID, e.Email, e.Username)
}

// ErrUserAlreadyExists is returned when registration collides with an
// existing email or username
type ErrUserAlreadyExists struct {
	Email    string
	Username string
}

func (e ErrUserAlreadyExists) Error() string {
	return fmt.Sprintf("user already exists: email: %s, username: %s", e.Email, e.Username)
}
