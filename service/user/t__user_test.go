package user

import (
	"context"
	"strings"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/evonft/go-evonft/service/persist"
)

type memUserRepo struct {
	users map[persist.DBID]persist.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[persist.DBID]persist.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, u persist.User) (persist.DBID, error) {
	u.ID = persist.DBID(ksuid.New().String())
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id persist.DBID) (persist.User, error) {
	u, ok := m.users[id]
	if !ok {
		return persist.User{}, persist.ErrUserNotFound{UserID: id}
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (persist.User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return persist.User{}, persist.ErrUserNotFound{Email: email}
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUserRepo) AddNft(ctx context.Context, userID, nftID persist.DBID) error {
	u, ok := m.users[userID]
	if !ok {
		return persist.ErrUserNotFound{UserID: userID}
	}
	u.Nfts = append(u.Nfts, nftID)
	m.users[userID] = u
	return nil
}

func setupUserEnv(t *testing.T) {
	t.Helper()
	viper.Set("JWT_SECRET", "test-secret")
	viper.Set("JWT_TTL", 3600)
}

func TestCreateUser_Success(t *testing.T) {
	setupUserEnv(t)
	repo := newMemUserRepo()

	out, err := CreateUser(context.Background(), CreateUserInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "hunter22hunter22",
	}, repo)
	assert.NoError(t, err)
	assert.NotEmpty(t, out.UserID)
	assert.NotEmpty(t, out.JWTToken)

	stored, err := repo.GetByID(context.Background(), out.UserID)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.NotEqual(t, "hunter22hunter22", stored.PasswordHash)
}

func TestCreateUser_DuplicateEmail_Failure(t *testing.T) {
	setupUserEnv(t)
	repo := newMemUserRepo()

	input := CreateUserInput{Username: "alice", Email: "alice@example.com", Password: "hunter22hunter22"}
	_, err := CreateUser(context.Background(), input, repo)
	assert.NoError(t, err)

	_, err = CreateUser(context.Background(), input, repo)
	assert.IsType(t, persist.ErrUserAlreadyExists{}, err)
}

func TestLogin_UniformRejection(t *testing.T) {
	setupUserEnv(t)
	repo := newMemUserRepo()

	_, err := CreateUser(context.Background(), CreateUserInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter22hunter22",
	}, repo)
	assert.NoError(t, err)

	// wrong password and unknown account are indistinguishable
	_, err = Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong"}, repo)
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "hunter22hunter22"}, repo)
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_Success(t *testing.T) {
	setupUserEnv(t)
	repo := newMemUserRepo()

	created, err := CreateUser(context.Background(), CreateUserInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter22hunter22",
	}, repo)
	assert.NoError(t, err)

	out, err := Login(context.Background(), LoginInput{Email: "ALICE@example.com", Password: "hunter22hunter22"}, repo)
	assert.NoError(t, err)
	assert.Equal(t, created.UserID, out.UserID)
	assert.Equal(t, "alice", out.Username)
	assert.NotEmpty(t, out.JWTToken)
}

func TestGetProfile_IncludesNfts(t *testing.T) {
	setupUserEnv(t)
	repo := newMemUserRepo()

	created, err := CreateUser(context.Background(), CreateUserInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter22hunter22",
	}, repo)
	assert.NoError(t, err)

	nftRepo := stubNftRepo{nfts: []persist.Nft{{ID: "nft-1", OwnerUserID: created.UserID}}}

	profile, err := GetProfile(context.Background(), created.UserID, repo, nftRepo)
	assert.NoError(t, err)
	assert.Equal(t, created.UserID, profile.User.ID)
	assert.Len(t, profile.Nfts, 1)
}

type stubNftRepo struct {
	nfts []persist.Nft
}

func (s stubNftRepo) Create(ctx context.Context, n persist.Nft) (persist.DBID, error) {
	return n.ID, nil
}
func (s stubNftRepo) GetByID(ctx context.Context, id persist.DBID) (persist.Nft, error) {
	return persist.Nft{}, persist.ErrNftNotFound{ID: id}
}
func (s stubNftRepo) GetByOwnerID(ctx context.Context, ownerID persist.DBID) ([]persist.Nft, error) {
	return s.nfts, nil
}
func (s stubNftRepo) Evolve(ctx context.Context, id, ownerID persist.DBID, newImage string, newTags []string) (persist.Nft, error) {
	return persist.Nft{}, persist.ErrNftNotFound{ID: id}
}
