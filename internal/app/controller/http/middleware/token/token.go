package token

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"delivery-market/internal/app/entity"
	"delivery-market/internal/app/usecase/token"
)

// CallerParserMiddleware decodes the bearer token once per request and
// stores the verdict in the context. Handlers replay non-200 verdicts
// instead of re-parsing the header.
func CallerParserMiddleware(decoder *token.Decoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerCtx := processAuthHeader(decoder, r.Header.Get(token.AuthHeader))

			ctx := context.WithValue(r.Context(), entity.CallerCtxKey{}, callerCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func processAuthHeader(decoder *token.Decoder, authHeader string) entity.CallerCtx {
	if len(authHeader) == 0 {
		zap.L().Info("authorization header is empty")

		return entity.CreateCallerCtx(entity.Caller{}, http.StatusUnauthorized)
	}

	caller, err := decoder.CallerFromHeader(authHeader)
	if err != nil {
		zap.L().Info("error while parsing auth header", zap.Error(err))

		if errors.Is(err, token.ErrMalformedHeader) {
			return entity.CreateCallerCtx(entity.Caller{}, http.StatusBadRequest)
		}

		return entity.CreateCallerCtx(entity.Caller{}, http.StatusUnauthorized)
	}

	return entity.CreateCallerCtx(caller, http.StatusOK)
}
