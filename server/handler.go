package server

import (
	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/middleware"
	"github.com/evonft/go-evonft/util"
)

func handlersInit(router *gin.Engine, repos *Repositories, clients *Clients) *gin.Engine {

	router.GET("/health", util.HealthCheckHandler())

	usersGroup := router.Group("/user")
	usersGroup.POST("/register", registerUser(repos.UserRepository))
	usersGroup.POST("/login", loginUser(repos.UserRepository))
	usersGroup.POST("/logout", logoutUser())
	usersGroup.GET("/profile", middleware.AuthRequired(), getProfile(repos.UserRepository, repos.NftRepository))

	apiGroup := router.Group("/api")
	apiGroup.POST("/evolve-prompt", middleware.AuthRequired(), evolvePrompt(repos.NftRepository, clients.Evolve, clients.EvolveThrottle))
	apiGroup.POST("/analyze-tags", middleware.AuthRequired(), analyzeTags(clients.Evolve))

	nftsGroup := apiGroup.Group("/nfts")
	nftsGroup.POST("/create", middleware.AuthRequired(), createNft(repos.NftRepository, repos.UserRepository))
	nftsGroup.GET("/my-nfts", middleware.AuthRequired(), getMyNfts(repos.NftRepository))
	nftsGroup.POST("/evolve", middleware.AuthRequired(), commitEvolution(repos.NftRepository))

	auctionsGroup := apiGroup.Group("/auctions")
	auctionsGroup.POST("/create", middleware.AuthRequired(), createAuction(repos.AuctionRepository, repos.NftRepository))
	auctionsGroup.GET("", middleware.AuthRequired(), getAuctions(repos.AuctionRepository))
	auctionsGroup.GET("/my-auctions", middleware.AuthRequired(), getMyAuctions(repos.AuctionRepository))
	auctionsGroup.POST("/bid", middleware.AuthRequired(), placeBid(repos.AuctionRepository))

	router.POST("/upload-image", middleware.AuthRequired(), uploadImage(clients.Pinata, clients.Mint, clients.Evolve))

	return router
}
