package validator

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/listing-service/internal/domain"
)

const (
	// TagCategory - правило принадлежности категории к перечислению
	TagCategory = "listing_category"
	// TagFinite - число не NaN и не ±Inf
	TagFinite = "finite"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// В ошибках используем имена полей из json тегов
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation(TagCategory, func(fl validator.FieldLevel) bool {
		return domain.IsValidCategory(fl.Field().String())
	})

	_ = validate.RegisterValidation(TagFinite, func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		default:
			return true
		}
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
