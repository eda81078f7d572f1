package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"delivery-market/internal/app/config"
	"delivery-market/internal/app/controller/http/index"
	"delivery-market/internal/app/controller/http/middleware/logger"
	token_middleware "delivery-market/internal/app/controller/http/middleware/token"
	"delivery-market/internal/app/controller/http/offers"
	"delivery-market/internal/app/controller/http/orders"
	"delivery-market/internal/app/controller/http/ratings"
	"delivery-market/internal/app/controller/http/stores"
	httputils "delivery-market/internal/app/controller/http/utils"
	"delivery-market/internal/app/entity"
	storage "delivery-market/internal/app/storage/api/model"
	usecase "delivery-market/internal/app/usecase/errors"
	"delivery-market/internal/app/usecase/token"
)

var errMethodNotAllowed = errors.New("method not allowed")

type HTTPServer struct {
	server *http.Server
}

func New(config config.Config, storage storage.Storage) *HTTPServer {
	decoder, err := token.NewDecoder(config.AuthSecret, config.AuthAudience)
	if err != nil {
		zap.L().Fatal("error while creating token decoder", zap.Error(err))
	}

	mux := createMux(decoder,
		orders.New(storage),
		offers.New(storage),
		ratings.New(storage),
		stores.New(storage, config.DefaultRadiusKm))

	return &HTTPServer{
		server: &http.Server{
			Addr:    config.NetAddr,
			Handler: mux,
		},
	}
}

func (s *HTTPServer) StartHTTPServer() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("fatal error while starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zap.L().Info("Got interruption signal. Shutting down HTTP server gracefully...")
	err := s.server.Shutdown(context.Background())
	if err != nil {
		zap.L().Error("error while shutting down server", zap.Error(err))
	}
}

func createMux(decoder *token.Decoder, orders orders.Order, offers offers.Offer, ratings ratings.Rating, stores stores.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(logger.LoggerMiddleware)
	r.Use(token_middleware.CallerParserMiddleware(decoder))

	r.Get("/", index.Identity())

	r.Post("/order", orders.CreateOrder())
	r.Get("/order", orders.GetOrders())
	r.Get("/order/accepted", orders.GetOrdersWithStatus(entity.StatusAcceptedOrder))
	r.Get("/order/finished", orders.GetOrdersWithStatus(entity.StatusFinishedOrder))
	r.Get("/order/{orderID}", orders.GetOrder())
	r.Put("/order/{orderID}", orders.AcceptOffer())
	r.Delete("/order/{orderID}", orders.DeleteOrder())

	r.Post("/offer", offers.CreateOffer())
	r.Post("/rating", ratings.CreateRating())

	r.Post("/store", stores.CreateStore())
	r.Get("/store/{storeID}", stores.GetStore())
	r.Get("/store/{storeID}/order/nearme", stores.ListNearbyOrders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteError(w, http.StatusNotFound, usecase.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})

	return r
}
