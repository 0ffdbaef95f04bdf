package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
)

// dateLayouts là các định dạng ngày chấp nhận trên query string
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Register gắn các rule riêng vào validator của gin binding
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

// RegisterOn đăng ký rule lên một validator cụ thể
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	rules := map[string]validator.Func{
		"kennel_size": func(fl validator.FieldLevel) bool {
			return models.KennelSize(fl.Field().String()).Valid()
		},
		"kennel_status": func(fl validator.FieldLevel) bool {
			return models.KennelStatus(fl.Field().String()).Valid()
		},
		"reservation_status": func(fl validator.FieldLevel) bool {
			return models.ReservationStatus(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// jsonName dùng tên json/form của field trong thông báo lỗi
func jsonName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// BindingError chuyển lỗi bind/validate của gin thành AppError
func BindingError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewAppError(errors.ErrCodeValidation, "malformed request body", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.NewAppError(errors.ErrCodeValidation, strings.Join(msgs, "; "), err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a UUID"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "kennel_size":
		return fmt.Sprintf("%s must be one of %v", field, models.KennelSizes)
	case "kennel_status", "reservation_status":
		return fmt.Sprintf("%s has an unknown value %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ParseDate đọc ngày dạng RFC3339 hoặc YYYY-MM-DD (UTC)
func ParseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Validation("%s must be an RFC3339 timestamp or YYYY-MM-DD date", field)
}

// ParseRange đọc cặp start/end từ query
func ParseRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseDate("start", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseDate("end", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}
