package models

// Response adalah envelope standar seluruh endpoint API.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
