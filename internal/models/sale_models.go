package models

import "time"

// SaleStatus defines the type for sale statuses
type SaleStatus string

const (
	SaleStatusConfirmed SaleStatus = "confirmed"
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// IsValidSaleStatus checks if the provided status string is a valid SaleStatus.
func IsValidSaleStatus(status string) bool {
	switch SaleStatus(status) {
	case SaleStatusConfirmed, SaleStatusPending, SaleStatusCancelled:
		return true
	default:
		return false
	}
}

func (s SaleStatus) Label() string {
	switch s {
	case SaleStatusConfirmed:
		return "Confirmada"
	case SaleStatusPending:
		return "Pendente"
	case SaleStatusCancelled:
		return "Cancelada"
	}
	return string(s)
}

// SaleCategory is the kind of travel product sold.
type SaleCategory string

const (
	SaleCategoryAir            SaleCategory = "air"
	SaleCategoryPackage        SaleCategory = "package"
	SaleCategoryHotel          SaleCategory = "hotel"
	SaleCategoryCarRental      SaleCategory = "car_rental"
	SaleCategoryVisaAssistance SaleCategory = "visa_assistance"
)

// IsValidSaleCategory checks if the provided category string is a valid SaleCategory.
func IsValidSaleCategory(category string) bool {
	switch SaleCategory(category) {
	case SaleCategoryAir, SaleCategoryPackage, SaleCategoryHotel, SaleCategoryCarRental, SaleCategoryVisaAssistance:
		return true
	default:
		return false
	}
}

// Label is the display name used in the ledger and in search.
func (c SaleCategory) Label() string {
	switch c {
	case SaleCategoryAir:
		return "Aéreo"
	case SaleCategoryPackage:
		return "Pacotes"
	case SaleCategoryHotel:
		return "Hotel"
	case SaleCategoryCarRental:
		return "Aluguel de Carro"
	case SaleCategoryVisaAssistance:
		return "Assessoria de Visto"
	}
	return string(c)
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValidPaymentMethod checks if the provided method string is a valid PaymentMethod.
func IsValidPaymentMethod(method string) bool {
	switch PaymentMethod(method) {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPix, PaymentMethodBankTransfer:
		return true
	default:
		return false
	}
}

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCash:
		return "Dinheiro"
	case PaymentMethodCreditCard:
		return "Cartão de Crédito"
	case PaymentMethodDebitCard:
		return "Cartão de Débito"
	case PaymentMethodPix:
		return "PIX"
	case PaymentMethodBankTransfer:
		return "Transferência"
	}
	return string(p)
}

// Sale is one booked transaction of any travel product.
//
// ClientName is a free-text display string and is not a foreign key: it may
// name a client that was renamed or deleted. Client holds the optional match
// against the owner's roster, resolved at read time and never persisted.
//
// OutboundDate and ReturnDate are independent; a return date earlier than the
// outbound date is stored as given.
type Sale struct {
	ID            string        `json:"id" db:"id"`
	OwnerID       string        `json:"owner_id" db:"owner_id"`
	ClientName    string        `json:"client_name" db:"client_name"`
	Locator       *string       `json:"locator,omitempty" db:"locator"`
	Amount        float64       `json:"amount" db:"amount"`
	PartySize     int           `json:"party_size" db:"party_size"`
	Origin        *string       `json:"origin,omitempty" db:"origin"`
	Destination   *string       `json:"destination,omitempty" db:"destination"`
	OutboundDate  *string       `json:"outbound_date,omitempty" db:"outbound_date"` // YYYY-MM-DD
	ReturnDate    *string       `json:"return_date,omitempty" db:"return_date"`     // YYYY-MM-DD
	Carrier       *string       `json:"carrier,omitempty" db:"carrier"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	SaleDate      string        `json:"sale_date" db:"sale_date"` // YYYY-MM-DD
	Status        SaleStatus    `json:"status" db:"status"`
	Notes         *string       `json:"notes,omitempty" db:"notes"`
	Category      SaleCategory  `json:"category" db:"category"`
	Cost          *float64      `json:"cost,omitempty" db:"cost"`
	Supplier      *string       `json:"supplier,omitempty" db:"supplier"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	Client        *Client       `json:"client,omitempty"`
}

// Profit is amount minus cost, with an absent cost counted as zero.
func (s Sale) Profit() float64 {
	if s.Cost == nil {
		return s.Amount
	}
	return s.Amount - *s.Cost
}

// SaleFilters defines the ledger filters. Dates are YYYY-MM-DD.
type SaleFilters struct {
	Search      string `form:"search"`
	TravelStart string `form:"travel_start"`
	TravelEnd   string `form:"travel_end"`
}
