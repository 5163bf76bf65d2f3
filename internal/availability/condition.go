package availability

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-paywall/internal/domain"
)

var validate = validator.New()

// PayPalCondition is the payment requirement attached to a module or section
type PayPalCondition struct {
	BusinessEmail string          `json:"businessemail" validate:"required,email"`
	Currency      string          `json:"currency" validate:"required,iso4217"`
	Cost          decimal.Decimal `json:"cost"`
	ItemName      string          `json:"itemname" validate:"required"`
	ItemNumber    string          `json:"itemnumber" validate:"required"`
}

// ParsePayPalCondition decodes a paypal leaf without validating it
func ParsePayPalCondition(c *Condition) (*PayPalCondition, error) {
	if c == nil || c.Type != domain.CONDITION_TYPE_PAYPAL {
		return nil, domain.ErrConditionNotFound
	}

	var cond PayPalCondition
	if err := json.Unmarshal(c.Params, &cond); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCondition, err)
	}
	return &cond, nil
}

// Validate checks the fields the condition editor requires
func (c *PayPalCondition) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCondition, err)
	}
	if !c.Cost.IsPositive() {
		return fmt.Errorf("%w: cost must be greater than 0", domain.ErrInvalidCondition)
	}
	return nil
}

// FormattedCost renders the cost with two decimals as the checkout form expects
func (c *PayPalCondition) FormattedCost() string {
	return c.Cost.StringFixed(2)
}
