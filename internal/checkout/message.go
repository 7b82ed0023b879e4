package checkout

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agimports/storefront-backend/pkg/db/models"
)

const (
	messageHeader  = "Olá! Gostaria de fazer um novo pedido:"
	messageClosing = "Aguardo a confirmação para finalizar o pedido. Obrigado!"
)

var (
	nonDigits   = regexp.MustCompile(`\D`)
	validNumber = regexp.MustCompile(`^\d{10,15}$`)
)

// SanitizePhone reduces the stored contact number to digits, prepending the
// country calling code when the number looks like a bare national number
// (10 or 11 digits). The result must land in the 10 to 15 digit range.
func SanitizePhone(raw, callingCode string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return "", fmt.Errorf("contact number has no digits")
	}
	if !strings.HasPrefix(digits, callingCode) && (len(digits) == 10 || len(digits) == 11) {
		digits = callingCode + digits
	}
	if !validNumber.MatchString(digits) {
		return "", fmt.Errorf("contact number %q is not a valid phone number", digits)
	}
	return digits, nil
}

// buildMessage renders the order summary in cart order. Line items read the
// list price; the text layout is fixed so the store can parse it by eye.
func buildMessage(lines []models.CartLine) (string, decimal.Decimal) {
	var b strings.Builder
	b.WriteString(messageHeader)
	b.WriteString("\n\n")

	total := decimal.Zero
	for i, line := range lines {
		name, team := "", ""
		unit := decimal.Zero
		if line.Product != nil {
			name = line.Product.Name
			team = line.Product.TeamName
			unit = line.Product.Price
		}
		subtotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		fmt.Fprintf(&b, "%d. %s - %s - R$ %s x%d = R$ %s\n",
			i+1, name, team, unit.StringFixed(2), line.Quantity, subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTotal: R$ %s\n\n", total.StringFixed(2))
	b.WriteString(messageClosing)
	return b.String(), total
}

// buildLink assembles the messaging deep link with the body URL-encoded.
func buildLink(scheme, number, body string) string {
	return fmt.Sprintf("%s://%s?text=%s", scheme, number, url.QueryEscape(body))
}
