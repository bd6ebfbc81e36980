package payme

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Scalar holds a string or number param exactly as sent. The provider is not
// consistent about quoting numeric fields, so both forms are accepted and
// interpretation is left to the consumer.
type Scalar string

// UnmarshalJSON accepts strings, numbers and null. Any other JSON value is
// kept as raw text and will fail numeric interpretation later.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar(strings.TrimSpace(str))
		return nil
	}
	*s = Scalar(b)
	return nil
}

// Int64 interprets the value as an integer. Integral decimals such as
// "1000.0" are accepted; values outside the int64 range are rejected.
func (s Scalar) Int64() (int64, error) {
	v, err := strconv.ParseInt(string(s), 10, 64)
	if err == nil {
		return v, nil
	}
	d, derr := decimal.NewFromString(string(s))
	if derr != nil || !d.IsInteger() || d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0, err
	}
	return d.IntPart(), nil
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

func (s Scalar) String() string {
	return string(s)
}

// AccountRef is the "account" object of a call.
type AccountRef struct {
	UserID Scalar `json:"user_id"`
}

// CheckPerformTransactionParams are the params of CheckPerformTransaction.
// Account and amount are checked by the state machine, not by decoding.
type CheckPerformTransactionParams struct {
	Amount  Scalar     `json:"amount"`
	Account AccountRef `json:"account"`
}

// CreateTransactionParams are the params of CreateTransaction.
type CreateTransactionParams struct {
	ID      Scalar     `json:"id" validate:"required"`
	Time    Scalar     `json:"time" validate:"required,integer"`
	Amount  Scalar     `json:"amount"`
	Account AccountRef `json:"account"`
}

// PerformTransactionParams are the params of PerformTransaction.
type PerformTransactionParams struct {
	ID   Scalar `json:"id" validate:"required"`
	Time Scalar `json:"time" validate:"required,integer"`
}

// CancelTransactionParams are the params of CancelTransaction.
type CancelTransactionParams struct {
	ID     Scalar `json:"id" validate:"required"`
	Reason Scalar `json:"reason" validate:"required,integer"`
}

// CheckTransactionParams are the params of CheckTransaction.
type CheckTransactionParams struct {
	ID Scalar `json:"id" validate:"required"`
}

// GetStatementParams are the params of GetStatement. Bounds are inclusive
// millisecond timestamps.
type GetStatementParams struct {
	From Scalar `json:"from" validate:"required,integer"`
	To   Scalar `json:"to" validate:"required,integer"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := Scalar(fl.Field().String()).Int64()
		return err == nil
	})
	return v
}

// DecodeParams decodes and validates the params object of a call. Missing or
// malformed required fields yield ErrInvalidRequest naming the first
// offending field.
func DecodeParams[T any](raw json.RawMessage) (*T, *Error) {
	var p T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrInvalidRequest.WithData("params")
	}
	if err := validate.Struct(&p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, ErrInvalidRequest.WithData(verrs[0].Field())
		}
		return nil, ErrInvalidRequest
	}
	return &p, nil
}
