package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

// Values accepted by the custom tags. They mirror the moderation and appeal enums.
var (
	reportReasons = []string{
		"hate_speech", "harassment", "violence", "illegal_content", "spam",
		"misinformation", "plagiarism", "inappropriate", "off_topic",
		"copyright", "other",
	}
	appealDecisions = []string{"approved", "rejected", "revision_requested"}
	severityFilters = []string{"all", "critical", "medium", "low"}
	reportSorts     = []string{"severity", "recent", "reason"}
)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		return contains(reportReasons, fl.Field().String())
	})

	validate.RegisterValidation("appeal_decision", func(fl validator.FieldLevel) bool {
		return contains(appealDecisions, fl.Field().String())
	})

	// Empty query values fall back to defaults
	validate.RegisterValidation("severity_filter", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || contains(severityFilters, v)
	})

	validate.RegisterValidation("report_sort", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || contains(reportSorts, v)
	})
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range validationErrors {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "report_reason":
			errors[field] = "Invalid report reason. Must be one of: " + strings.Join(reportReasons, ", ")
		case "appeal_decision":
			errors[field] = "Invalid decision. Must be: approved, rejected, or revision_requested"
		case "severity_filter":
			errors[field] = "Invalid severity. Must be one of: " + strings.Join(severityFilters, ", ")
		case "report_sort":
			errors[field] = "Invalid sort. Must be one of: " + strings.Join(reportSorts, ", ")
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
