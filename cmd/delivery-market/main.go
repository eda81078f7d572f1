package main

import (
	"go.uber.org/zap"

	"delivery-market/internal/app/config"
	server "delivery-market/internal/app/controller/http/server"
	"delivery-market/internal/app/logger"
	storage "delivery-market/internal/app/storage/api"
)

func main() {
	config := config.InitConfig()

	err := logger.Initialize(config)
	if err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	store, err := storage.InitStorage(config)
	if err != nil {
		zap.L().Fatal("error while initializing storage", zap.Error(err))
	}
	defer store.Close()

	zap.L().Info("starting delivery market server", zap.String("address", config.NetAddr))

	server.New(config, store).StartHTTPServer()
}
