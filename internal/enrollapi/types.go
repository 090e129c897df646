package enrollapi

// UploadRequest is the body of POST /upload. Image is a data URL.
type UploadRequest struct {
	Name        string `json:"name"`
	Orientation string `json:"orientation"`
	Image       string `json:"image"`
}

// UploadResponse acknowledges a stored capture.
type UploadResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Face is one enrolled subject as returned by GET /faces.
type Face struct {
	Name         string   `json:"name"`
	Orientations []string `json:"orientations"`
	Count        int      `json:"count"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Message string `json:"message"`
}

// MatchResponse is the service's verdict for one image. MatchedName
// is "Unknown" when no enrolled subject scored above the service threshold.
type MatchResponse struct {
	MatchedName     string  `json:"matched_name"`
	SimilarityScore float64 `json:"similarity_score"`
	IsMatch         bool    `json:"is_match"`
}

type matchRequest struct {
	Image string `json:"image"`
}

type deleteRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}
