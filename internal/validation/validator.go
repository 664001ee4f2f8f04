package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

// Paying-customer answers that make MRR and growth-rate answers mandatory.
var payingCustomerValues = map[string]bool{
	"yes-recurring": true,
	"yes-oneoff":    true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report field paths by json tag so errors line up with the payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(responsesStructLevel, AssessmentResponses{})

	return v
}

// responsesStructLevel enforces the conditionally-required pair: founders who
// report paying customers must also report MRR/ARR and a growth rate.
func responsesStructLevel(sl validator.StructLevel) {
	resp := sl.Current().Interface().(AssessmentResponses)

	if !payingCustomerValues[resp.HasPayingCustomers] {
		return
	}

	if resp.CurrentMRR == "" {
		sl.ReportError(resp.CurrentMRR, "currentMRR", "CurrentMRR", "required", "")
	} else if !digitsPattern.MatchString(resp.CurrentMRR) {
		sl.ReportError(resp.CurrentMRR, "currentMRR", "CurrentMRR", "digits", "")
	}

	if resp.CustomerGrowthRate == "" {
		sl.ReportError(resp.CustomerGrowthRate, "customerGrowthRate", "CustomerGrowthRate", "required", "")
	}
}

// ValidateSubmission checks the whole payload and collects every field error
// into one path -> message map (first error per path wins). A nil map means
// the payload is valid.
func ValidateSubmission(body *SubmissionBody) map[string]string {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"responses": "invalid payload"}
	}

	errors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, seen := errors[path]; !seen {
			errors[path] = messageFor(fe)
		}
	}
	return errors
}

// fieldPath turns "SubmissionBody.responses.contactEmail" into
// "responses.contactEmail".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "digits":
		return "Please enter a valid number"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Please select at least one option"
		}
		return "Value is too small"
	case "eq":
		return "Consent is required"
	default:
		return "Invalid value"
	}
}
