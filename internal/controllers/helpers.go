package controllers

import (
	"time"
)

const (
	DefaultRequestTimeout = 3 * time.Second
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
