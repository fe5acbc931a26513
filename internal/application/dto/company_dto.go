package dto

// UpdateCompanyRequest body de PUT /api/company. Reemplaza el documento completo.
type UpdateCompanyRequest struct {
	Slug           string `json:"slug" validate:"max=100"`
	Logo           string `json:"logo" validate:"max=500"`
	Name           string `json:"name" validate:"max=200"`
	Phone          string `json:"phone" validate:"max=50"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address1       string `json:"address1" validate:"max=200"`
	Address2       string `json:"address2" validate:"max=200"`
	Landmark       string `json:"landmark" validate:"max=200"`
	Pincode        string `json:"pincode" validate:"max=20"`
	City           string `json:"city" validate:"max=100"`
	State          string `json:"state" validate:"max=100"`
	Country        string `json:"country" validate:"max=100"`
	GSTIN          string `json:"gstin" validate:"max=20"`
	TaxID          string `json:"taxId" validate:"max=50"`
	CurrencySymbol string `json:"currencySymbol" validate:"max=5"`
	CurrencyCode   string `json:"currencyCode" validate:"omitempty,len=3"`
	Terms          string `json:"terms" validate:"max=5000"`
	BankDetails    string `json:"bankDetails" validate:"max=2000"`
}
