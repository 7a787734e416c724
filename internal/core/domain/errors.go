package domain

import (
	"errors"
	"fmt"
)

// FetchError - транспортная ошибка или не-2xx статус при обращении к API реестра.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("trade API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("trade API request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UpstreamError - сервис ответил, но с кодом результата, не начинающимся с "00".
// Страница с таким кодом отбрасывается целиком.
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("trade API returned error code %s: %s", e.Code, e.Message)
}

var (
	// ErrViewportEmpty - в текущем окне карты нет ни одного региона для поиска.
	ErrViewportEmpty = errors.New("no searchable region in the current view")

	// ErrViewportTooLarge - видимых регионов больше лимита, поиск отклонен
	// до единого запроса к реестру.
	ErrViewportTooLarge = errors.New("too many regions in the current view")

	// ErrSessionNotFound - сессия с таким id не существует.
	ErrSessionNotFound = errors.New("session not found")
)
