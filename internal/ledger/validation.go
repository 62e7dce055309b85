package ledger

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Decision is the outcome an admin records on a pending review.
type Decision = enums.ReviewStatus

const (
	Approve Decision = enums.ReviewStatusApproved
	Reject  Decision = enums.ReviewStatusRejected
)

// AddStockInput describes a stock delivery. Dates are YYYY-MM-DD.
type AddStockInput struct {
	ProductID  string          `json:"productId" validate:"required"`
	Quantity   int             `json:"quantity" validate:"gt=0"`
	Price      decimal.Decimal `json:"price"`
	DateAdded  string          `json:"dateAdded" validate:"required,datetime=2006-01-02"`
	ExpiryDate string          `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	SupplierID string          `json:"supplierId" validate:"required"`
}

// AddProductStatusInput reports expired or damaged units.
type AddProductStatusInput struct {
	ProductID string              `json:"productId" validate:"required"`
	Type      enums.ConditionType `json:"type" validate:"oneof=expired damaged"`
	Quantity  int                 `json:"quantity" validate:"gt=0"`
	Notes     string              `json:"notes"`
	ImageURL  string              `json:"imageUrl"`
}

// AddReturnRequestInput asks for units to be taken back. A zero or nil
// RefundAmount means no refund.
type AddReturnRequestInput struct {
	ProductID             string             `json:"productId" validate:"required"`
	Quantity              int                `json:"quantity" validate:"gt=0"`
	Reason                enums.ReturnReason `json:"reason" validate:"oneof=defective expired customer_return damaged other"`
	Notes                 string             `json:"notes"`
	OriginalTransactionID string             `json:"originalTransactionId"`
	RefundAmount          *decimal.Decimal   `json:"refundAmount" validate:"omitempty,gte=0"`
}

type addProductInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	ImageURL string `json:"imageUrl"`
}

type addSupplierInput struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactNumber string `json:"contactNumber" validate:"contact11"`
}

type addTransactionInput struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
}

type reviewInput struct {
	ID       string   `json:"id" validate:"required"`
	Decision Decision `json:"status" validate:"oneof=approved rejected"`
}

var contactPattern = regexp.MustCompile(`^\d{11}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("contact11", func(fl validator.FieldLevel) bool {
		return contactPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// validateInput returns a VALIDATION_ERROR whose message describes the first
// failing field and whose details list every failure.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}

	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, userMessage(errs[0])).WithDetails(details)
}

func userMessage(fe validator.FieldError) string {
	if fe.Tag() == "contact11" {
		return "Contact number must be 11 digits"
	}
	return fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "contact11":
		return "must be 11 digits"
	}
	return "is invalid"
}

func sanitize(input string) string {
	return strings.TrimSpace(input)
}
