package index

import (
	"net/http"

	httputils "delivery-market/internal/app/controller/http/utils"
	"delivery-market/internal/app/model"
)

// Identity handles GET /: it echoes the authenticated caller back, which
// doubles as a token smoke test for clients.
func Identity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := httputils.ParseCaller(w, r)
		if !ok {
			return
		}

		httputils.WriteJSON(w, http.StatusOK, model.CallerResponse{
			UserID: caller.ID.String(),
			Role:   string(caller.Role),
		})
	}
}
