package api

// Message roles. The backend never emits anything besides these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Paper is one recommended paper as the backend serializes it. ArxivID is
// the stable identity within a session; list position is display-only.
type Paper struct {
	ArxivID         string   `json:"arxiv_id"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	Published       string   `json:"published"`
	Categories      []string `json:"categories"`
	PDFURL          string   `json:"pdf_url"`
	RelevanceScore  *float64 `json:"relevance_score"`
	RelevanceReason *string  `json:"relevance_reason"`
}

// ChatMessage is a single transcript entry.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one user turn. History holds the transcript as it
// stood before this turn's utterance; CurrentPapers gives the backend the
// catalog to refine against.
type ChatRequest struct {
	Message       string        `json:"message"`
	History       []ChatMessage `json:"history"`
	CurrentPapers []Paper       `json:"current_papers"`
}

// ChatResponse is the backend's answer to a turn. Papers may be empty when
// the reply is purely conversational.
type ChatResponse struct {
	Reply       string  `json:"reply"`
	Papers      []Paper `json:"papers"`
	SearchQuery *string `json:"search_query"`
}

// DownloadResult reports one download attempt.
type DownloadResult struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	FilePath *string `json:"file_path"`
}

// DownloadedFile is one entry from the downloads listing.
type DownloadedFile struct {
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
}
