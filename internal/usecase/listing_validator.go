package usecase

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/pkg/errors"
	pkgvalidator "github.com/listing-service/internal/pkg/validator"
	"github.com/listing-service/internal/usecase/dto"
)

// RuleNumber - значение поля не разбирается как число
const RuleNumber = "number"

// ValidationResult - итог проверки: пустой список нарушений означает успех
type ValidationResult struct {
	Violations []domain.FieldViolation
}

func (r ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Err возвращает VALIDATION_FAILED с нарушениями в details или nil
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return errors.ErrValidationFailed.WithDetails(map[string]interface{}{
		"violations": r.Violations,
	})
}

// ListingValidator проверяет присланные поля объявления целиком, без частичного применения
type ListingValidator struct {
	validate *validator.Validate
}

func NewListingValidator() *ListingValidator {
	return &ListingValidator{validate: pkgvalidator.GetValidator()}
}

// Validate нормализует ввод и возвращает все нарушения в порядке полей
func (v *ListingValidator) Validate(input dto.ListingInput) ValidationResult {
	normalized := input.Normalize()

	err := v.validate.Struct(normalized)
	if err == nil {
		return ValidationResult{}
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return ValidationResult{Violations: []domain.FieldViolation{{
			Field:   "",
			Rule:    "invalid",
			Message: err.Error(),
		}}}
	}

	violations := make([]domain.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Field() == "price" && fe.Tag() == "required" && normalized.PriceText != "" {
			violations = append(violations, domain.FieldViolation{
				Field:   "price",
				Rule:    RuleNumber,
				Message: "price must be a number",
			})
			continue
		}
		violations = append(violations, domain.FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return ValidationResult{Violations: violations}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case pkgvalidator.TagFinite:
		return fmt.Sprintf("%s must be a finite number", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case pkgvalidator.TagCategory:
		names := make([]string, 0, len(domain.Categories()))
		for _, c := range domain.Categories() {
			names = append(names, string(c))
		}
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
