package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

var ErrInvalidRegistration = errors.New("invalid restaurant registration")

// RegistrationError lists every failed field message of one or more form steps.
type RegistrationError struct {
	Messages []string
}

func (e *RegistrationError) Error() string {
	return "invalid registration: " + strings.Join(e.Messages, "; ")
}

func (e *RegistrationError) Unwrap() error {
	return ErrInvalidRegistration
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen"`
}

type RegistrationForm struct {
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Description    string              `json:"description"`
	Cuisine        string              `json:"cuisine"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Street         string              `json:"street"`
	Number         string              `json:"number"`
	Neighborhood   string              `json:"neighborhood"`
	City           string              `json:"city"`
	State          string              `json:"state"`
	ZipCode        string              `json:"zipCode"`
	Complement     string              `json:"complement"`
	OpeningHours   map[string]DayHours `json:"openingHours"`
	DeliveryFee    string              `json:"deliveryFee"`
	MinimumOrder   string              `json:"minimumOrder"`
	EstimatedMin   int                 `json:"estimatedDeliveryTimeMin"`
	EstimatedMax   int                 `json:"estimatedDeliveryTimeMax"`
	PaymentMethods []string            `json:"paymentMethods"`
	CoverImage     string              `json:"coverImage"`
	ProfileImage   string              `json:"profileImage"`
}

const RegistrationSteps = 4

var weekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// GenerateSlug lowercases, strips accents and collapses whitespace into dashes.
func GenerateSlug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		plain = strings.ToLower(name)
	}
	s := slugInvalid.ReplaceAllString(plain, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateStep returns the messages for one step of the registration wizard.
func ValidateStep(step int, f RegistrationForm) []string {
	var errs []string
	switch step {
	case 1:
		if blank(f.Name) {
			errs = append(errs, "Nome do restaurante é obrigatório")
		}
		if blank(f.Slug) {
			errs = append(errs, "URL do restaurante é obrigatória")
		}
		if blank(f.Description) {
			errs = append(errs, "Descrição é obrigatória")
		}
		if f.Cuisine == "" {
			errs = append(errs, "Tipo de culinária é obrigatório")
		}
	case 2:
		required := []struct{ value, msg string }{
			{f.Email, "E-mail é obrigatório"},
			{f.Phone, "Telefone é obrigatório"},
			{f.Street, "Rua é obrigatória"},
			{f.Number, "Número é obrigatório"},
			{f.Neighborhood, "Bairro é obrigatório"},
			{f.City, "Cidade é obrigatória"},
			{f.State, "Estado é obrigatório"},
			{f.ZipCode, "CEP é obrigatório"},
		}
		for _, r := range required {
			if blank(r.value) {
				errs = append(errs, r.msg)
			}
		}
	case 3:
		open := false
		for _, h := range f.OpeningHours {
			if h.IsOpen {
				open = true
				break
			}
		}
		if !open {
			errs = append(errs, "Pelo menos um dia da semana deve estar aberto")
		}
	case 4:
		if blank(f.DeliveryFee) {
			errs = append(errs, "Taxa de entrega é obrigatória")
		} else if _, err := decimal.NewFromString(strings.Replace(f.DeliveryFee, ",", ".", 1)); err != nil {
			errs = append(errs, "Taxa de entrega inválida")
		}
		if blank(f.MinimumOrder) {
			errs = append(errs, "Pedido mínimo é obrigatório")
		} else if _, err := decimal.NewFromString(strings.Replace(f.MinimumOrder, ",", ".", 1)); err != nil {
			errs = append(errs, "Pedido mínimo inválido")
		}
		if len(f.PaymentMethods) == 0 {
			errs = append(errs, "Pelo menos uma forma de pagamento deve ser selecionada")
		}
	}
	return errs
}

// Validate runs every step and returns a *RegistrationError when any fails.
func Validate(f RegistrationForm) error {
	var all []string
	for step := 1; step <= RegistrationSteps; step++ {
		all = append(all, ValidateStep(step, f)...)
	}
	if len(all) > 0 {
		return &RegistrationError{Messages: all}
	}
	return nil
}

// Register validates the form and stores a new restaurant with an empty menu.
func Register(ctx context.Context, repo Repository, f RegistrationForm, now time.Time) (*domain.Restaurant, error) {
	if blank(f.Slug) {
		f.Slug = GenerateSlug(f.Name)
	}
	if err := Validate(f); err != nil {
		return nil, err
	}

	res := &domain.Restaurant{
		ID:          uuid.NewString(),
		Slug:        f.Slug,
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Banner:      f.CoverImage,
		Logo:        f.ProfileImage,
		Cuisine:     f.Cuisine,
		Contact:     domain.Contact{Phone: f.Phone, Email: f.Email},
		Address: domain.Address{
			Street:       f.Street,
			Number:       f.Number,
			Neighborhood: f.Neighborhood,
			City:         f.City,
			State:        f.State,
			ZipCode:      f.ZipCode,
			Complement:   f.Complement,
		},
		DeliveryFee:         decimal.RequireFromString(strings.Replace(f.DeliveryFee, ",", ".", 1)),
		MinimumOrder:        decimal.RequireFromString(strings.Replace(f.MinimumOrder, ",", ".", 1)),
		EstimatedMinMinutes: f.EstimatedMin,
		EstimatedMaxMinutes: f.EstimatedMax,
		IsActive:            true,
		CreatedAt:           now,
	}
	for _, day := range weekDays {
		if h, ok := f.OpeningHours[day]; ok && h.IsOpen {
			res.Hours = append(res.Hours, domain.OpeningHours{Day: day, Open: h.Open, Close: h.Close})
		}
	}
	for _, m := range f.PaymentMethods {
		res.PaymentMethods = append(res.PaymentMethods, domain.PaymentMethod(m))
	}

	if err := repo.SaveRestaurant(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}
