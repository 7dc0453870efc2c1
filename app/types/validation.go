package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("u128", func(fl validator.FieldLevel) bool {
			_, err := ParseUint128(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// ParseUint128 parses a base-10 unsigned 128-bit integer.
func ParseUint128(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.New("empty value")
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return decimal.Zero, fmt.Errorf("%q is not a base-10 unsigned integer", raw)
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !entity.IsUint128(d) {
		return decimal.Zero, fmt.Errorf("%q exceeds 128 bits", raw)
	}
	return d, nil
}

func validateStruct(v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	return errors.New(fe.Field() + " " + messageForTag(fe.Tag(), fe.Param()))
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "u128":
		return "must be an unsigned 128-bit integer"
	case "max":
		return "must be at most " + param + " characters"
	case "gte":
		return "must be >= " + param
	case "lte":
		return "must be <= " + param
	case "oneof":
		return "must be one of " + param
	default:
		return "is invalid"
	}
}
