package response

// Success messages
const (
	MessageRegistered = "Your registration was successful."
	MessageCompared   = "Similarity successfully calculated."
	MessageRefilled   = "Tokens successfully refilled."
)

// SignupResponse is the response for POST /signup
type SignupResponse struct {
	StatusCode int    `json:"Status code"`
	Message    string `json:"Message"`
}

// CompareResponse is the response for POST /compare
type CompareResponse struct {
	StatusCode      int     `json:"Status code"`
	Message         string  `json:"Message"`
	Similarity      float64 `json:"Similarity value"`
	TokensRemaining int     `json:"Tokens remaining"`
}

// RefillResponse is the response for POST /refill
type RefillResponse struct {
	StatusCode    int    `json:"Status code"`
	Message       string `json:"Message"`
	CurrentTokens int    `json:"Current token amount"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
