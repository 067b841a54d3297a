package models

// ContentType selects the normalization path for submitted content.
type ContentType string

const (
	ContentTypeText   ContentType = "text"
	ContentTypeBinary ContentType = "binary"
)

// ParseContentType maps the wire value to a ContentType. Anything other than "text" is binary.
func ParseContentType(s string) ContentType {
	if s == string(ContentTypeText) {
		return ContentTypeText
	}
	return ContentTypeBinary
}

type ProcessingRequest struct {
	FileContent string `json:"fileContent"`
	ContentType string `json:"contentType"`
	Title       string `json:"title"`
}

type ProcessYouTubeRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ProcessingResult is the sole output of the generation pipeline.
type ProcessingResult struct {
	Notes         string         `json:"notes"`
	Flashcards    []Flashcard    `json:"flashcards"`
	QuizQuestions []QuizQuestion `json:"quizQuestions"`
}

// YouTubeProcessingResult is a ProcessingResult plus the title resolved for the video.
type YouTubeProcessingResult struct {
	Title string `json:"title"`
	*ProcessingResult
}
