package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/evonft/go-evonft/service/auth"
	"github.com/evonft/go-evonft/service/persist"
)

// ErrInvalidCredentials is the uniform login failure so callers cannot tell
// a missing account from a wrong password
var ErrInvalidCredentials = errors.New("invalid email or password")

// CreateUserInput is the payload for registration
type CreateUserInput struct {
	Name     string `json:"name"     binding:"max_string_length"`
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// CreateUserOutput is returned from registration with a fresh session token
type CreateUserOutput struct {
	UserID   persist.DBID `json:"userId"`
	JWTToken string       `json:"jwtToken"`
}

// LoginInput is the payload for logging in
type LoginInput struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginOutput is returned from a successful login
type LoginOutput struct {
	UserID   persist.DBID `json:"userId"`
	Username string       `json:"username"`
	JWTToken string       `json:"jwtToken"`
}

// GetProfileOutput is the authenticated user's account plus their NFTs
type GetProfileOutput struct {
	User persist.User  `json:"user"`
	Nfts []persist.Nft `json:"nfts"`
}

// CreateUser registers a new account: the email must be unused, the password
// is stored as a bcrypt hash, and a session token is issued immediately
func CreateUser(pCtx context.Context, pInput CreateUserInput, userRepo persist.UserRepository) (CreateUserOutput, error) {

	email := strings.ToLower(pInput.Email)

	exists, err := userRepo.ExistsByEmail(pCtx, email)
	if err != nil {
		return CreateUserOutput{}, err
	}
	if exists {
		return CreateUserOutput{}, persist.ErrUserAlreadyExists{Email: email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pInput.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateUserOutput{}, err
	}

	name := pInput.Name
	if name == "" {
		name = pInput.Username
	}

	userID, err := userRepo.Create(pCtx, persist.User{
		Name:               name,
		Username:           pInput.Username,
		UsernameIdempotent: strings.ToLower(pInput.Username),
		Email:              email,
		PasswordHash:       string(hash),
	})
	if err != nil {
		return CreateUserOutput{}, err
	}

	token, err := auth.GenerateAuthToken(userID)
	if err != nil {
		return CreateUserOutput{}, err
	}

	return CreateUserOutput{UserID: userID, JWTToken: token}, nil
}

// Login verifies an email/password pair and issues a session token
func Login(pCtx context.Context, pInput LoginInput, userRepo persist.UserRepository) (LoginOutput, error) {

	user, err := userRepo.GetByEmail(pCtx, strings.ToLower(pInput.Email))
	if err != nil {
		if _, ok := err.(persist.ErrUserNotFound); ok {
			return LoginOutput{}, ErrInvalidCredentials
		}
		return LoginOutput{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pInput.Password)); err != nil {
		return LoginOutput{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateAuthToken(user.ID)
	if err != nil {
		return LoginOutput{}, err
	}

	return LoginOutput{UserID: user.ID, Username: user.Username, JWTToken: token}, nil
}

// GetProfile returns the authenticated user's account along with every NFT
// they own
func GetProfile(pCtx context.Context, pUserID persist.DBID, userRepo persist.UserRepository, nftRepo persist.NftRepository) (GetProfileOutput, error) {

	user, err := userRepo.GetByID(pCtx, pUserID)
	if err != nil {
		return GetProfileOutput{}, err
	}

	nfts, err := nftRepo.GetByOwnerID(pCtx, pUserID)
	if err != nil {
		return GetProfileOutput{}, err
	}

	return GetProfileOutput{User: user, Nfts: nfts}, nil
}
