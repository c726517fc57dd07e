package request

// CreateTableRequest represents the create table request payload
type CreateTableRequest struct {
	Number int    `json:"number" binding:"required,min=1"`
	Area   string `json:"area"`
	Seats  int    `json:"seats" binding:"omitempty,min=1"`
}
