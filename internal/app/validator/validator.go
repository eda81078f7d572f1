package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"delivery-market/internal/app/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(ratingCommentRule, model.CreateRatingRequest{})

	return v
}

// ratingCommentRule forces a comment on low ratings: below four stars the
// customer has to say what went wrong.
func ratingCommentRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.CreateRatingRequest)
	if req.Stars >= 1 && req.Stars < 4 && len(strings.TrimSpace(req.Comment)) == 0 {
		sl.ReportError(req.Comment, "Comment", "comment", "required_for_low_stars", "")
	}
}

func CreateOrderRequest(req model.CreateOrderRequest) error {
	return describe(validate.Struct(req))
}

func AcceptOfferRequest(req model.AcceptOfferRequest) error {
	return describe(validate.Struct(req))
}

func CreateOfferRequest(req model.CreateOfferRequest) error {
	return describe(validate.Struct(req))
}

func CreateRatingRequest(req model.CreateRatingRequest) error {
	return describe(validate.Struct(req))
}

func CreateStoreRequest(req model.CreateStoreRequest) error {
	return describe(validate.Struct(req))
}

// describe flattens the library's per-field errors into one aggregated
// message so a malformed body yields a single validation failure.
func describe(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("error while validating request: %w", err)
	}

	reasons := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		reasons = append(reasons, fmt.Sprintf("%s failed on %s", fieldError.Namespace(), fieldError.Tag()))
	}

	return fmt.Errorf("invalid request body: %s", strings.Join(reasons, "; "))
}
