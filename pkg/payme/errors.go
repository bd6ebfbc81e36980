// Package payme implements the wire side of the payment provider's
// merchant API: the JSON-RPC style envelope, the method set, typed params
// and the canonical error catalogue. Codes and messages here are a contract
// with the provider and must not be changed.
package payme

import (
	"errors"
	"fmt"
)

// Error codes defined by the provider protocol.
const (
	CodeSystemError          = -32400
	CodeInvalidAuthorization = -32504
	CodeInvalidRequest       = -32600
	CodeMethodNotFound       = -32601
	CodeParseError           = -32700

	CodeInvalidAmount       = -31001
	CodeTransactionNotFound = -31003
	CodeCantPerform         = -31008
	CodeInvalidAccount      = -31050
	CodeAccountNotFound     = -31051
)

// Message is a localized error message. The provider expects exactly these
// three locales.
type Message struct {
	UZ string `json:"uz"`
	RU string `json:"ru"`
	EN string `json:"en"`
}

// Error is a protocol error. It is returned as a Go error by the service layer
// and encoded verbatim into the response envelope.
type Error struct {
	Code    int     `json:"code"`
	Message Message `json:"message"`
	Data    string  `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("payme error %d: %s (%s)", e.Code, e.Message.EN, e.Data)
	}
	return fmt.Sprintf("payme error %d: %s", e.Code, e.Message.EN)
}

// Is matches protocol errors by code so that errors.Is works against the
// catalogue values regardless of Data.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithData returns a copy of the error naming the offending parameter.
func (e *Error) WithData(field string) *Error {
	cp := *e
	cp.Data = field
	return &cp
}

// The catalogue.
var (
	ErrSystem = &Error{
		Code: CodeSystemError,
		Message: Message{
			UZ: "Tizim xatosi",
			RU: "Системная ошибка",
			EN: "System error",
		},
	}
	ErrInvalidAuthorization = &Error{
		Code: CodeInvalidAuthorization,
		Message: Message{
			UZ: "Avtorizatsiyadan o'tishda xatolik",
			RU: "Ошибка авторизации",
			EN: "Authorization error",
		},
	}
	ErrInvalidRequest = &Error{
		Code: CodeInvalidRequest,
		Message: Message{
			UZ: "Noto'g'ri so'rov",
			RU: "Неверный запрос",
			EN: "Invalid request",
		},
	}
	ErrMethodNotFound = &Error{
		Code: CodeMethodNotFound,
		Message: Message{
			UZ: "Metod topilmadi",
			RU: "Метод не найден",
			EN: "Method not found",
		},
	}
	ErrParse = &Error{
		Code: CodeParseError,
		Message: Message{
			UZ: "JSON so'rovni o'qishda xatolik",
			RU: "Ошибка разбора JSON",
			EN: "JSON parse error",
		},
	}
	ErrInvalidAmount = &Error{
		Code: CodeInvalidAmount,
		Message: Message{
			UZ: "Noto'g'ri summa",
			RU: "Неверная сумма",
			EN: "Invalid amount",
		},
		Data: "amount",
	}
	ErrTransactionNotFound = &Error{
		Code: CodeTransactionNotFound,
		Message: Message{
			UZ: "Tranzaksiya topilmadi",
			RU: "Транзакция не найдена",
			EN: "Transaction not found",
		},
	}
	ErrCantPerform = &Error{
		Code: CodeCantPerform,
		Message: Message{
			UZ: "Operatsiyani bajarib bo'lmaydi",
			RU: "Невозможно выполнить операцию",
			EN: "Unable to perform operation",
		},
	}
	ErrInvalidAccount = &Error{
		Code: CodeInvalidAccount,
		Message: Message{
			UZ: "Hisob raqami noto'g'ri",
			RU: "Неверный номер счёта",
			EN: "Invalid account",
		},
		Data: "user_id",
	}
	ErrAccountNotFound = &Error{
		Code: CodeAccountNotFound,
		Message: Message{
			UZ: "Hisob topilmadi",
			RU: "Счёт не найден",
			EN: "Account not found",
		},
		Data: "user_id",
	}
)

// AsError converts any error into a protocol error. Protocol errors pass
// through unchanged; everything else becomes ErrSystem.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return ErrSystem
}
