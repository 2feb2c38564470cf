package service

import (
	"fmt"
	"regexp"
	"strings"

	"pie/internal/domain"
)

// EPC069-12 field limits.
const (
	epcMaxName       = 70
	epcMaxRemittance = 140
	epcMissingName   = "Not Provided"
)

var (
	ibanPattern      = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	amountPattern    = regexp.MustCompile(`^[0-9]{1,9}(\.[0-9]{1,2})?$`)
	creditorRefRegex = regexp.MustCompile(`^RF[0-9]{2}[A-Z0-9]{1,21}$`)
)

// PaymentService builds bank payment payloads from extracted invoice data.
type PaymentService interface {
	BuildEPC(data domain.InvoiceData) (*domain.EPCPayment, error)
}

type paymentService struct{}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService() PaymentService {
	return &paymentService{}
}

// BuildEPC formats data as an EPC069-12 version 002 SEPA credit transfer payload.
// RF creditor references go to the structured remittance line, anything else
// to the unstructured one.
func (s *paymentService) BuildEPC(data domain.InvoiceData) (*domain.EPCPayment, error) {
	iban := strings.ToUpper(strings.Join(strings.Fields(data.Account), ""))
	if !ibanPattern.MatchString(iban) || mod97(iban) != 1 {
		return nil, fmt.Errorf("%w: account %q is not an IBAN", domain.ErrInvalidPayment, data.Account)
	}

	amount := ""
	if a := strings.TrimSpace(data.Amount); a != "" {
		a = strings.ReplaceAll(a, ",", ".")
		if !amountPattern.MatchString(a) {
			return nil, fmt.Errorf("%w: amount %q is not in XXXXX.YY form", domain.ErrInvalidPayment, data.Amount)
		}
		cents := formatCents(a)
		if cents == "0.00" {
			return nil, fmt.Errorf("%w: amount must be at least 0.01", domain.ErrInvalidPayment)
		}
		amount = "EUR" + cents
	}

	// one field per line
	name := singleLine(data.Name)
	if name == "" {
		name = epcMissingName
	}

	var structured, unstructured string
	if ref := strings.ToUpper(strings.Join(strings.Fields(data.Communication), "")); creditorRefRegex.MatchString(ref) && mod97(ref) == 1 {
		structured = ref
	} else {
		unstructured = truncateRunes(singleLine(data.Communication), epcMaxRemittance)
	}

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		"", // BIC is optional in version 002
		truncateRunes(name, epcMaxName),
		iban,
		amount,
		"", // purpose
		structured,
		unstructured,
	}
	payload := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	return &domain.EPCPayment{Payload: payload}, nil
}

// mod97 computes the ISO 7064 MOD 97-10 remainder shared by IBANs and RF
// creditor references. Valid identifiers yield 1.
func mod97(s string) int {
	rearranged := s[4:] + s[:4]
	rem := 0
	for _, ch := range rearranged {
		switch {
		case ch >= '0' && ch <= '9':
			rem = (rem*10 + int(ch-'0')) % 97
		case ch >= 'A' && ch <= 'Z':
			rem = (rem*100 + int(ch-'A'+10)) % 97
		}
	}
	return rem
}

// formatCents pads a validated amount to exactly two decimals.
func formatCents(a string) string {
	whole, frac, _ := strings.Cut(a, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}
	return whole + "." + frac
}

// singleLine collapses every run of whitespace, line breaks included, into one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
