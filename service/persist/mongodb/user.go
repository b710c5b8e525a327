package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/evonft/go-evonft/service/persist"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollName = "users"

// UserRepository is a repository that stores users in a MongoDB database
type UserRepository struct {
	mp *storage
}

// NewUserRepository creates a new instance of the user mongo repository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		mp: newStorage(db, 0, usersCollName),
	}
}

// Create inserts a user into the database
func (u *UserRepository) Create(pCtx context.Context, pUser persist.User) (persist.DBID, error) {
	pUser.UsernameIdempotent = strings.ToLower(pUser.Username)
	if pUser.Nfts == nil {
		pUser.Nfts = []persist.DBID{}
	}

	id, err := u.mp.insert(pCtx, pUser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", persist.ErrUserAlreadyExists{Email: pUser.Email, Username: pUser.Username}
		}
		return "", err
	}
	return id, nil
}

// GetByID returns a user by its ID
func (u *UserRepository) GetByID(pCtx context.Context, pID persist.DBID) (persist.User, error) {

	var result persist.User
	err := u.mp.findOne(pCtx, bson.M{"_id": pID}, &result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return persist.User{}, persist.ErrUserNotFound{UserID: pID}
		}
		return persist.User{}, err
	}

	return result, nil
}

// GetByEmail returns a user by email address
func (u *UserRepository) GetByEmail(pCtx context.Context, pEmail string) (persist.User, error) {

	var result persist.User
	err := u.mp.findOne(pCtx, bson.M{"email": strings.ToLower(pEmail)}, &result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return persist.User{}, persist.ErrUserNotFound{Email: pEmail}
		}
		return persist.User{}, err
	}

	return result, nil
}

// ExistsByEmail returns true if a user exists with the given email address
func (u *UserRepository) ExistsByEmail(pCtx context.Context, pEmail string) (bool, error) {

	opts := options.Count()
	if deadline, ok := pCtx.Deadline(); ok {
		opts.SetMaxTime(time.Until(deadline))
	}

	count, err := u.mp.count(pCtx, bson.M{"email": strings.ToLower(pEmail)}, opts)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// AddNft pushes an NFT reference onto a user's owned list
func (u *UserRepository) AddNft(pCtx context.Context, pUserID persist.DBID, pNftID persist.DBID) error {
	err := u.mp.push(pCtx, bson.M{"_id": pUserID}, "nfts", []persist.DBID{pNftID})
	if _, ok := err.(persist.DocumentNotFoundError); ok {
		return persist.ErrUserNotFound{UserID: pUserID}
	}
	return err
}
