package dashboard

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"

	"tradepro/internal/repo"
	"tradepro/internal/validation"
)

// MaxProductImageSize bounds the inline product picture, in bytes.
const MaxProductImageSize = 1024 * 1024

// ProductForm is the product editor's input.
type ProductForm struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Description string          `json:"description"`
	// Image is a freshly picked picture. Nil keeps the stored one on update.
	Image  []byte `json:"-"`
	Active bool   `json:"active"`
}

func (f *ProductForm) normalise() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
}

func (f *ProductForm) validate() error {
	return validation.Struct(f)
}

// imageDataURL encodes Image as an inline data URL.
func (f *ProductForm) imageDataURL() (*string, error) {
	if len(f.Image) == 0 {
		return nil, nil
	}
	if !validation.CheckFileSize(uint64(len(f.Image)), MaxProductImageSize) {
		return nil, validation.Errors{"image": "must be at most 1 MB"}
	}
	mt := mimetype.Detect(f.Image)
	if !validation.CheckFileMime(mt.String()) {
		return nil, validation.Errors{"image": "must be an image, got " + mt.String()}
	}
	url := "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(f.Image)
	return &url, nil
}

// ClientForm is the client editor's input.
type ClientForm struct {
	ClientID     string          `json:"client_id" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=200"`
	Password     string          `json:"password"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Zip          string          `json:"zip"`
	Wilaya       string          `json:"wilaya"`
	PaymentMode  string          `json:"payment_mode"`
	CreditLimit  decimal.Decimal `json:"credit_limit" validate:"gte=0"`
	FiscalNumber string          `json:"fiscal_number"`
	Notes        string          `json:"notes"`
	Active       bool            `json:"active"`
	ShowPrice    bool            `json:"show_price"`
	ShowQuantity bool            `json:"show_quantity"`
}

// NewClientForm returns the editor defaults: active with prices and quantities shown.
func NewClientForm() ClientForm {
	return ClientForm{Active: true, ShowPrice: true, ShowQuantity: true}
}

func (f *ClientForm) normalise() {
	for _, s := range []*string{&f.ClientID, &f.Name, &f.Email, &f.Phone, &f.Address, &f.City, &f.Zip,
		&f.Wilaya, &f.PaymentMode, &f.FiscalNumber, &f.Notes} {
		*s = strings.TrimSpace(*s)
	}
}

func (f *ClientForm) validate(creating bool) error {
	errs := validation.Errors{}
	if err := validation.Struct(f); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if creating && f.Password == "" {
		errs["password"] = "required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f *ClientForm) toClient(merchantID string) repo.Client {
	limit := f.CreditLimit
	return repo.Client{
		MerchantID:   merchantID,
		ClientID:     f.ClientID,
		Name:         f.Name,
		Password:     f.Password,
		Email:        optional(f.Email),
		Phone:        optional(f.Phone),
		Address:      optional(f.Address),
		City:         optional(f.City),
		Zip:          optional(f.Zip),
		Wilaya:       optional(f.Wilaya),
		PaymentMode:  optional(f.PaymentMode),
		CreditLimit:  &limit,
		FiscalNumber: optional(f.FiscalNumber),
		Notes:        optional(f.Notes),
		Active:       f.Active,
		ShowPrice:    f.ShowPrice,
		ShowQuantity: f.ShowQuantity,
	}
}

// toUpdate sends every field, so blanking a contact field in the editor clears it.
func (f *ClientForm) toUpdate() repo.ClientUpdate {
	upd := repo.ClientUpdate{
		ClientID:     &f.ClientID,
		Name:         &f.Name,
		Email:        &f.Email,
		Phone:        &f.Phone,
		Address:      &f.Address,
		City:         &f.City,
		Zip:          &f.Zip,
		Wilaya:       &f.Wilaya,
		PaymentMode:  &f.PaymentMode,
		CreditLimit:  &f.CreditLimit,
		FiscalNumber: &f.FiscalNumber,
		Notes:        &f.Notes,
		Active:       &f.Active,
		ShowPrice:    &f.ShowPrice,
		ShowQuantity: &f.ShowQuantity,
	}
	if f.Password != "" {
		upd.Password = &f.Password
	}
	return upd
}
