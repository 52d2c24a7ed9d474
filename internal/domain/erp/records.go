package erp

// Security groups granted to the administrator of a provisioned company
const (
	GroupInternalUser = "base.group_user"
	GroupSettings     = "base.group_system"
	GroupAccessRights = "base.group_erp_manager"
)

// AdminGroups returns the groups granted to a provisioned administrator
func AdminGroups() []string {
	return []string{GroupInternalUser, GroupSettings, GroupAccessRights}
}

// Address is a postal address
type Address struct {
	Street  string
	City    string
	Zip     string
	Country int64 // ERP country ID, 0 when unknown
}

// PartnerRecord is the contact record (res.partner) behind a company
type PartnerRecord struct {
	Name            string
	IsCompany       bool
	VAT             string
	CompanyRegistry string
	Email           string
	Phone           string
	Website         string
	Address         Address
}

// CompanyRecord is a company (res.company) tied to its partner record
type CompanyRecord struct {
	Name            string
	PartnerID       int64
	Email           string
	Phone           string
	VAT             string
	CompanyRegistry string
	CountryID       int64
}

// UserRecord is an internal user (res.users)
type UserRecord struct {
	Name       string
	Login      string
	Email      string
	Password   string
	CompanyID  int64
	CompanyIDs []int64
	GroupIDs   []int64
	Lang       string
}

// LeadRecord is a CRM opportunity (crm.lead) created from a website form
type LeadRecord struct {
	Name        string
	PartnerName string
	ContactName string
	Email       string
	Phone       string
	Description string
	CountryID   int64
}
