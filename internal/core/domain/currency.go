package domain

// SupportedCurrencies are the currency codes a proposal may carry.
var SupportedCurrencies = []string{"TRY", "USD", "EUR", "GBP"}

// ValidCurrency reports whether code is a supported currency code.
func ValidCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
