package entities

// QuizState holds the data of one loop iteration. It is created fresh for
// every question and dropped when the iteration ends.
type QuizState struct {
	Iteration int    `json:"iteration"`
	RawText   string `json:"raw_text"` // text as rendered on the page
	Word      string `json:"word"`     // normalized lookup key
	Answer    string `json:"answer"`
	State     State  `json:"state"`
}
