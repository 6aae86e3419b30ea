package handler

import (
	"net/http"

	"github.com/mcoot/textcompare/internal/api/response"
)

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, response.HealthResponse{Status: "ok"})
}
