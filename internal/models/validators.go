package models

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the circulation tags used in binding rules.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("payment_mode", func(fl validator.FieldLevel) bool {
		return IsValidPaymentMode(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("loan_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case LoanStatusIssued, LoanStatusRenewed, LoanStatusReturned:
			return true
		}
		return false
	})
}
