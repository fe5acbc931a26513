package entity

// CompanySettings datos de la empresa (se guardan como documento JSON).
type CompanySettings struct {
	Slug           string `json:"slug,omitempty"`
	Logo           string `json:"logo,omitempty"`
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address1       string `json:"address1,omitempty"`
	Address2       string `json:"address2,omitempty"`
	Landmark       string `json:"landmark,omitempty"`
	Pincode        string `json:"pincode,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Country        string `json:"country,omitempty"`
	GSTIN          string `json:"gstin,omitempty"`
	TaxID          string `json:"taxId,omitempty"`
	CurrencySymbol string `json:"currencySymbol,omitempty"`
	CurrencyCode   string `json:"currencyCode,omitempty"`
	Terms          string `json:"terms,omitempty"`
	BankDetails    string `json:"bankDetails,omitempty"`
}
