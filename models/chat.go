package models

// ChatContext is assembled per chat request and discarded after the
// answer generator returns.
type ChatContext struct {
	PriceContext string
	WebContext   string
}

// AnswerInput is everything the answer generator receives.
type AnswerInput struct {
	Message      string
	Product      string
	PriceContext string
	WebContext   string
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	Product string `json:"product"`
}

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Response string `json:"response"`
	Product  string `json:"product,omitempty"`
}

// SearchResponse is returned by GET /api/search.
type SearchResponse struct {
	Results []*Listing `json:"results"`
	Query   string     `json:"query,omitempty"`
	Error   string     `json:"error,omitempty"`
}
