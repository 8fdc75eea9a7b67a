package controllers

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-storefront/api/responses"
)

func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", env)
		responses.WriteOK(w, map[string]string{"status": "live"})
	}
}
