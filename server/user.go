package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evonft/go-evonft/service/auth"
	"github.com/evonft/go-evonft/service/persist"
	userservice "github.com/evonft/go-evonft/service/user"
	"github.com/evonft/go-evonft/util"
)

func registerUser(userRepo persist.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input userservice.CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		output, err := userservice.CreateUser(c, input, userRepo)
		if err != nil {
			status := http.StatusInternalServerError
			if _, ok := err.(persist.ErrUserAlreadyExists); ok {
				status = http.StatusConflict
			}
			util.ErrResponse(c, status, err)
			return
		}

		auth.SetJWTCookie(c, output.JWTToken)
		c.JSON(http.StatusCreated, output)
	}
}

func loginUser(userRepo persist.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input userservice.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		output, err := userservice.Login(c, input, userRepo)
		if err != nil {
			status := http.StatusInternalServerError
			if err == userservice.ErrInvalidCredentials {
				status = http.StatusUnauthorized
			}
			util.ErrResponse(c, status, err)
			return
		}

		auth.SetJWTCookie(c, output.JWTToken)
		c.JSON(http.StatusOK, output)
	}
}

func logoutUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.ClearJWTCookie(c)
		c.JSON(http.StatusOK, util.SuccessResponse{Success: true})
	}
}

func getProfile(userRepo persist.UserRepository, nftRepo persist.NftRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserIDFromCtx(c)

		output, err := userservice.GetProfile(c, userID, userRepo, nftRepo)
		if err != nil {
			status := http.StatusInternalServerError
			if _, ok := err.(persist.ErrUserNotFound); ok {
				status = http.StatusNotFound
			}
			util.ErrResponse(c, status, err)
			return
		}

		c.JSON(http.StatusOK, output)
	}
}
