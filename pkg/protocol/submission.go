package protocol

// Submission is one dialog submission from Slack. Field names mirror the
// dialog element names so the interaction payload maps straight onto it.
type Submission struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ReproSteps  string `json:"description_reproduce,omitempty"`
}

// Identity is a reporting user's profile as resolved from the chat platform.
type Identity struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}
