package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/deepfake-api/internal/buildconfig"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: buildconfig.ServiceName,
	})
}
