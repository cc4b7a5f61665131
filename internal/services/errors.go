package services

import (
	"errors"
	"fmt"
)

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrStageUnknown       = errors.New("unknown stage")
	ErrStageNotSelectable = errors.New("stage is not selectable")
	ErrFlowClosed         = errors.New("transition flow is closed")
	ErrWrongStep          = errors.New("wrong transition step")
)

// ValidationError — ошибка клиентских данных: до сети/БД не доходит,
// хендлер отвечает 400 с текстом по конкретному полю.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
