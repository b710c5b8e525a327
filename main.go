package main

import (
	"fmt"
	"net/http"

	"github.com/evonft/go-evonft/env"
	"github.com/evonft/go-evonft/server"
	"github.com/evonft/go-evonft/service/logger"
)

func main() {
	server.Init()

	port := env.GetString("PORT")
	logger.For(nil).Infof("listening on :%s", port)

	if err := http.ListenAndServe(fmt.Sprintf(":%s", port), nil); err != nil {
		logger.For(nil).Fatalf("server exited: %s", err)
	}
}
