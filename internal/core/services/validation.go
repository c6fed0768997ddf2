package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var (
	personNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z]*(-[A-Za-z]+)?$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9\s()-]{7,20}$`)
	streetPattern     = regexp.MustCompile(`^[A-Za-z0-9\s.,'-]{3,100}$`)
	placePattern      = regexp.MustCompile(`^[A-Za-z\s'-]{2,50}$`)
	zipPattern        = regexp.MustCompile(`^[A-Za-z0-9\s-]{3,10}$`)
	cardNamePattern   = regexp.MustCompile(`^[A-Za-z]+([ '-][A-Za-z]+)*$`)
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
	whitespace        = regexp.MustCompile(`\s+`)
)

// requiredMessages and invalidMessages are keyed by the form field name.
var requiredMessages = map[string]string{
	"firstName":  "First name is required",
	"lastName":   "Last name is required",
	"email":      "Email is required",
	"phone":      "Phone number is required",
	"street":     "Street address is required",
	"region":     "City is required",
	"state":      "State/Province is required",
	"zip":        "Zip code is required",
	"country":    "Country is required",
	"cardName":   "Card holder name required",
	"cardNumber": "Card number required",
	"expiry":     "Expire date required",
	"cvv":        "CVV required",
	"agreed":     "You must agree to the Privacy Policy and Terms of Use.",
}

var invalidMessages = map[string]string{
	"firstName":  "Invalid first name. First name must start with a capital letter, only letters and optional hyphen (2-25 characters).",
	"lastName":   "Invalid last name. Last name must start with a capital letter, only letters and optional hyphen (2-25 characters).",
	"email":      "Invalid email format (example: user@example.com).",
	"phone":      "Invalid phone number format.",
	"street":     "Invalid street address. Use letters, numbers, spaces, commas, dots, apostrophes or hyphens (3-100 characters).",
	"region":     "Invalid city name. Use only letters, spaces, apostrophes or hyphens (2-50 characters).",
	"state":      "Invalid state/province. Use only letters, spaces, apostrophes or hyphens (2-50 characters).",
	"zip":        "Invalid zip code format.",
	"cardName":   "Invalid card name. Please enter first and last name.",
	"cardNumber": "Must be 16 digits",
	"expiry":     "Format MM/YY",
	"cvv":        "Must be 3 digits",
}

// CheckoutValidator checks the checkout form before any network call.
type CheckoutValidator struct {
	validate *validator.Validate
}

// NewCheckoutValidator creates a validator with the storefront form rules.
func NewCheckoutValidator() *CheckoutValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})

	rules := map[string]func(string) bool{
		"person_name": func(s string) bool {
			return len(s) >= 2 && len(s) <= 25 && personNamePattern.MatchString(s)
		},
		"phone":       phonePattern.MatchString,
		"street":      streetPattern.MatchString,
		"place":       placePattern.MatchString,
		"zip":         zipPattern.MatchString,
		"card_name":   cardNamePattern.MatchString,
		"card_expiry": cardExpiryPattern.MatchString,
		"cvv":         cvvPattern.MatchString,
		"card_number": func(s string) bool {
			return cardNumberPattern.MatchString(whitespace.ReplaceAllString(s, ""))
		},
	}
	for tag, match := range rules {
		match := match
		// Registration only fails on an empty tag name.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return match(fl.Field().String())
		})
	}

	return &CheckoutValidator{validate: v}
}

// Validate returns a *domain.ValidationError listing every bad field, or nil.
func (v *CheckoutValidator) Validate(req domain.CheckoutRequest) error {
	fields := map[string]string{}

	contact := trimContact(req.Contact)
	v.collect(v.validate.Struct(contact), fields)
	v.collect(v.validate.Struct(trimPayment(req.Payment)), fields)

	if len(req.Items) == 0 {
		fields["items"] = domain.ErrEmptyCart.Error()
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

// ValidateContact checks only the contact form.
func (v *CheckoutValidator) ValidateContact(contact domain.ContactDetails) error {
	fields := map[string]string{}
	v.collect(v.validate.Struct(trimContact(contact)), fields)
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

func (v *CheckoutValidator) collect(err error, fields map[string]string) {
	if err == nil {
		return
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		fields["form"] = err.Error()
		return
	}
	for _, fe := range errs {
		fields[fe.Field()] = validationMessage(fe)
	}
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return "is required"
	}
	if msg, ok := invalidMessages[fe.Field()]; ok {
		return msg
	}
	return "is invalid"
}

func trimContact(c domain.ContactDetails) domain.ContactDetails {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Street = strings.TrimSpace(c.Street)
	c.Region = strings.TrimSpace(c.Region)
	c.State = strings.TrimSpace(c.State)
	c.Zip = strings.TrimSpace(c.Zip)
	c.Country = strings.TrimSpace(c.Country)
	c.Apartment = strings.TrimSpace(c.Apartment)
	c.Company = strings.TrimSpace(c.Company)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

func trimPayment(p domain.PaymentDetails) domain.PaymentDetails {
	p.CardName = strings.TrimSpace(p.CardName)
	p.CardNumber = strings.TrimSpace(p.CardNumber)
	p.Expiry = strings.TrimSpace(p.Expiry)
	p.CVV = strings.TrimSpace(p.CVV)
	return p
}
