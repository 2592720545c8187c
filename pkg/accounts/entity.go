package accounts

// Account is a read-only CRM account record, held only for one request.
type Account struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Industry       string   `json:"industry"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	AnnualRevenue  *float64 `json:"annualRevenue"`
	BillingCity    string   `json:"billingCity"`
	BillingState   string   `json:"billingState"`
	BillingCountry string   `json:"billingCountry"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Page is one window of accounts ordered by name.
type Page struct {
	Accounts   []Account  `json:"accounts"`
	Pagination Pagination `json:"pagination"`
}
