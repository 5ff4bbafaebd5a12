package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages     []Message // Transcript snapshot pushed by core
	Input        string    // User input field
	Status       string    // Status bar text
	Notice       string    // Validation notice, cleared after a few seconds
	NoticeSeq    int       // Identifies the notice a dismiss tick belongs to
	InputEnabled bool      // Controls state pushed by core
	LoadingDots  int       // Animation counter for the loading placeholder
	Width        int       // Terminal width
	Height       int       // Terminal height
}
