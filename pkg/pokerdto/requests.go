package pokerdto

type NewHandRequest struct {
	HeroPosition    string `json:"hero_position"`
	VillainPosition string `json:"villain_position"`
}

type HumanActionRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorBody is the dealer's rejection payload on non-2xx responses.
type ErrorBody struct {
	Error string `json:"error"`
}
