package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	NetAddr      string `env:"RUN_ADDRESS"`
	DBConnect    string `env:"DATABASE_URI"`
	LogLevel     string `env:"LOG_LEVEL"`
	AuthSecret   string `env:"AUTH_SECRET"`
	AuthAudience string `env:"AUTH_AUDIENCE"`

	UserOrderLimit  int `env:"USER_ORDER_LIMIT"`
	StoreOrderLimit int `env:"STORE_ORDER_LIMIT"`
	OfferOrderLimit int `env:"OFFER_ORDER_LIMIT"`
	DefaultRadiusKm int `env:"DEFAULT_ORDER_RADIUS"`
}

func InitConfig() (config Config) {
	flag.StringVar(&config.NetAddr, "a", "localhost:8080", "net address host:port")
	flag.StringVar(&config.DBConnect, "d", "", "database credentials in format: host=host port=port user=myuser password=xxxx dbname=mydb sslmode=disable")
	flag.StringVar(&config.LogLevel, "l", "info", "log level")
	flag.StringVar(&config.AuthSecret, "s", "", "base64 secret for bearer token verification")
	flag.StringVar(&config.AuthAudience, "c", "", "expected token audience (client id), empty disables the check")
	flag.IntVar(&config.UserOrderLimit, "user-orders", 4, "max accepted orders per customer")
	flag.IntVar(&config.StoreOrderLimit, "store-orders", 10, "max accepted orders per store")
	flag.IntVar(&config.OfferOrderLimit, "order-offers", 7, "max offers per order")
	flag.IntVar(&config.DefaultRadiusKm, "radius", 1, "default store service radius, km")
	flag.Parse()

	if err := env.Parse(&config); err != nil {
		panic(fmt.Errorf("error while parsing config: %w", err))
	}

	return
}
