package dashboard

import (
	"context"

	"tradepro/internal/gateway"
	"tradepro/internal/repo"
	"tradepro/internal/validation"
)

// DefaultSettings is what a merchant without a settings row sees.
func DefaultSettings(merchantID string) repo.MerchantSettings {
	return repo.MerchantSettings{
		MerchantID:           merchantID,
		CompanyCountry:       "Algérie",
		Currency:             "DZD",
		PaymentTerms:         30,
		InvoicePrefix:        "FAC",
		InvoiceStartNumber:   1000,
		ThemeColor:           "#3B82F6",
		Language:             "fr",
		Timezone:             "Africa/Algiers",
		NotificationEmail:    true,
		NotificationSMS:      false,
		NotificationWhatsApp: true,
		AutoInvoice:          true,
		AutoReminder:         false,
		ReminderDays:         7,
	}
}

// LoadSettings returns the stored settings, or the defaults when none exist or the store failed.
func (s *MerchantService) LoadSettings(ctx context.Context, merchantID string) repo.MerchantSettings {
	if stored := s.gw.GetMerchantSettings(ctx, merchantID); stored != nil {
		return *stored
	}
	return DefaultSettings(merchantID)
}

// SaveSettings uploads logo when given, then upserts settings. A logo that
// fails validation aborts the save; a logo that fails to upload keeps the
// previous logo_url and the rest is still saved.
func (s *MerchantService) SaveSettings(ctx context.Context, settings repo.MerchantSettings, logo *gateway.LogoFile) (repo.MerchantSettings, error) {
	if logo != nil {
		if err := validation.Logo(logo.Data); err != nil {
			return settings, err
		}
		if up := s.gw.UploadLogo(ctx, settings.MerchantID, *logo); up != nil {
			settings.LogoURL = up.URL
		} else {
			s.logger.Warn("logo upload failed, keeping previous logo", "merchant", settings.MerchantID)
		}
	}
	if !s.gw.SaveMerchantSettings(ctx, settings) {
		return settings, ErrNotSaved
	}
	return settings, nil
}

// ResetSettings clears the company identity and restores invoicing and
// notification defaults. Country, website, currency, language and timezone are kept.
func ResetSettings(current repo.MerchantSettings) repo.MerchantSettings {
	d := DefaultSettings(current.MerchantID)
	out := current
	out.CompanyName = ""
	out.CompanyEmail = ""
	out.CompanyPhone = ""
	out.CompanyAddress = ""
	out.CompanyCity = ""
	out.TaxID = ""
	out.TradeRegistry = ""
	out.BankName = ""
	out.BankAccount = ""
	out.PaymentTerms = d.PaymentTerms
	out.InvoicePrefix = d.InvoicePrefix
	out.InvoiceStartNumber = d.InvoiceStartNumber
	out.LogoURL = ""
	out.ThemeColor = d.ThemeColor
	out.NotificationEmail = d.NotificationEmail
	out.NotificationSMS = d.NotificationSMS
	out.NotificationWhatsApp = d.NotificationWhatsApp
	out.AutoInvoice = d.AutoInvoice
	out.AutoReminder = d.AutoReminder
	out.ReminderDays = d.ReminderDays
	out.Signature = ""
	out.Notes = ""
	return out
}
