package domain

import "strings"

// Currency is the user's display currency selection. Amounts themselves are
// currency-agnostic magnitudes; the currency only affects presentation and
// report generation.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// SupportedCurrencies returns the built-in currency table
func SupportedCurrencies() []Currency {
	return []Currency{
		{Code: "USD", Symbol: "$"},
		{Code: "EUR", Symbol: "€"},
		{Code: "GBP", Symbol: "£"},
		{Code: "JPY", Symbol: "¥"},
		{Code: "INR", Symbol: "₹"},
		{Code: "CAD", Symbol: "$"},
		{Code: "AUD", Symbol: "$"},
		{Code: "CHF", Symbol: "Fr"},
		{Code: "BRL", Symbol: "R$"},
		{Code: "PHP", Symbol: "₱"},
	}
}

// DefaultCurrency is the selection used before the user picks one
func DefaultCurrency() Currency {
	return Currency{Code: "USD", Symbol: "$"}
}

// FindCurrency looks up a supported currency by code, case-insensitively
func FindCurrency(code string) (Currency, bool) {
	for _, c := range SupportedCurrencies() {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Currency{}, false
}
