package controllers

import (
	"net/http"

	"github.com/gomartvn/storefront-backend/api/responses"
	"github.com/gomartvn/storefront-backend/api/validators"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
	"github.com/gomartvn/storefront-backend/pkg/geocode"
	"github.com/gomartvn/storefront-backend/pkg/logger"
)

// GeocodeReverse resolves a map coordinate into a display address for the
// checkout form.
func GeocodeReverse(client *geocode.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "geocode client unavailable"))
			return
		}

		lng, err := validators.ParseQueryFloat(r, "lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lat, err := validators.ParseQueryFloat(r, "lat")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := client.Reverse(r.Context(), lng, lat)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}
