package importer

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
)

var (
	decimalType   = reflect.TypeOf(decimal.Decimal{})
	uint64PtrType = reflect.TypeOf((*uint64)(nil))
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("csv"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Decode fills the struct pointed to by dst from row using `csv` tags,
// then checks its `validate` tags. Supported field types are string,
// decimal.Decimal and *uint64. Blank cells leave the zero value.
func (imp *Importer) Decode(row Row, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		column := strings.SplitN(field.Tag.Get("csv"), ",", 2)[0]
		if column == "" || column == "-" {
			continue
		}
		raw := row.Get(column)
		if raw == "" {
			continue
		}
		if err := setField(rv.Field(i), column, raw); err != nil {
			return err
		}
	}

	if err := imp.validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return apierrors.NewValidation("%s", describe(verrs))
		}
		return err
	}
	return nil
}

func setField(field reflect.Value, column, raw string) error {
	switch field.Type() {
	case decimalType:
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return apierrors.NewValidation("%s: invalid number %q", column, raw)
		}
		field.Set(reflect.ValueOf(d))
	case uint64PtrType:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return apierrors.NewValidation("%s: invalid id %q", column, raw)
		}
		field.Set(reflect.ValueOf(&n))
	default:
		if field.Kind() != reflect.String {
			return fmt.Errorf("unsupported import field type %s for column %s", field.Type(), column)
		}
		field.SetString(raw)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "gt":
			msg = "must be greater than " + fe.Param()
		case "gte":
			msg = "must be at least " + fe.Param()
		case "min":
			msg = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			msg = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "email":
			msg = "must be a valid email address"
		case "oneof":
			msg = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
		default:
			msg = "failed " + fe.Tag() + " check"
		}
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), msg))
	}
	return strings.Join(parts, "; ")
}
