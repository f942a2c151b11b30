package models

// AskRequest is the body of POST /ask
type AskRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}
