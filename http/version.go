package http

import (
	"net/http"
)

func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(version))
	}
}

// HandleFeatures lists the enabled feature flags.
func HandleFeatures(flags []string) http.HandlerFunc {
	if flags == nil {
		flags = []string{}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, flags)
	}
}
