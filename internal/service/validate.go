package service

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	maxNameLength = 200

	priceScale     = 2
	priceMaxDigits = 10
)

type productValidator func(p *models.Product) error

// productValidators run in order; the first failure wins.
var productValidators = []productValidator{
	validateName,
	validateDescription,
	validatePrice,
	validatePricePrecision,
	validateStock,
}

func ValidateProduct(p *models.Product) error {
	for _, v := range productValidators {
		if err := v(p); err != nil {
			return err
		}
	}
	return nil
}

func validateName(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "This field may not be blank.")
	}
	if utf8.RuneCountInString(p.Name) > maxNameLength {
		return invalid("name", "Ensure this field has no more than 200 characters.")
	}
	return nil
}

func validateDescription(p *models.Product) error {
	if strings.TrimSpace(p.Description) == "" {
		return invalid("description", "This field may not be blank.")
	}
	return nil
}

func validatePrice(p *models.Product) error {
	if !p.Price.IsPositive() {
		return invalid("price", "Price must be greater than 0")
	}
	return nil
}

var maxPrice = decimal.New(1, priceMaxDigits-priceScale)

func validatePricePrecision(p *models.Product) error {
	if !p.Price.Equal(p.Price.Truncate(priceScale)) {
		return invalid("price", "Ensure that there are no more than 2 decimal places.")
	}
	if p.Price.GreaterThanOrEqual(maxPrice) {
		return invalid("price", "Ensure that there are no more than 10 digits in total.")
	}
	return nil
}

// Stock is stored as a signed integer column; keep it within int32 so every
// backend reads it back as a non-negative value.
func validateStock(p *models.Product) error {
	if p.Stock > math.MaxInt32 {
		return invalid("stock", "Ensure this value is less than or equal to 2147483647.")
	}
	return nil
}

func validateOrderLines(lines []models.OrderItem) error {
	for _, it := range lines {
		if it.ProductID == 0 {
			return invalid("items", "product_id is required.")
		}
		if it.Quantity < 1 {
			return invalid("items", "Ensure quantity is greater than or equal to 1.")
		}
	}
	return nil
}

func parseStatus(raw string) (models.OrderStatus, error) {
	s := models.OrderStatus(raw)
	if !s.Valid() {
		return "", invalid("status", `"`+raw+`" is not a valid choice.`)
	}
	return s, nil
}
