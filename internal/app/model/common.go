package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Msg string `json:"msg"`
}

type CallerResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
