package encode

import "paybridge/internal/assembly/models"

// categoryB2C is the fixed customer category sent for consumer orders.
const categoryB2C = "B2C"

// Role selects which customer group a party encodes into.
type Role string

const (
	RoleBilling  Role = "Billing"
	RoleShipping Role = "Shipping"
)

func (r Role) group() models.Group {
	if r == RoleShipping {
		return models.GroupShippingCustomer
	}
	return models.GroupBillingCustomer
}

// Party encodes a billing or shipping party into its customer group. The
// core field order is fixed; optional fields follow in a fixed order and
// are skipped entirely when empty. The group index is always empty: a
// transaction carries at most one party per role.
func Party(role Role, party models.Party) []models.ParameterRecord {
	group := role.group()

	records := []models.ParameterRecord{
		partyRecord("Category", categoryB2C, group),
		partyRecord("FirstName", party.FirstName, group),
		partyRecord("LastName", party.LastName, group),
		partyRecord("Gender", string(party.Gender), group),
		partyRecord("Street", party.Street.Street, group),
		partyRecord("PostalCode", party.PostalCode, group),
		partyRecord("City", party.City, group),
		partyRecord("Country", party.CountryCode, group),
		partyRecord("Email", party.Email, group),
	}

	if party.Phone != "" {
		records = append(records, partyRecord("Phone", party.Phone, group))
	}
	if party.Street.HouseNumber != "" {
		records = append(records, partyRecord("StreetNumber", party.Street.HouseNumber, group))
	}
	if party.Street.NumberSuffix != "" {
		records = append(records, partyRecord("StreetNumberAdditional", party.Street.NumberSuffix, group))
	}
	// The gateway only accepts a national identification number for
	// Finnish customers.
	if party.CountryCode == "FI" {
		records = append(records, partyRecord("IdentificationNumber", party.IdentificationNumber, group))
	}
	if party.BirthDate != "" {
		records = append(records, partyRecord("BirthDate", party.BirthDate, group))
	}

	return records
}

func partyRecord(name, value string, group models.Group) models.ParameterRecord {
	return models.ParameterRecord{
		Value:      value,
		Name:       name,
		Group:      group,
		GroupIndex: "",
	}
}

// PartyFromAddress derives an encoder-ready party from a raw address and
// the checkout's additional information. The phone override falls back to
// the address's own telephone when absent.
func PartyFromAddress(addr models.Address, info models.AdditionalInfo, street models.StreetParts) models.Party {
	phone := info.Telephone
	if phone == "" {
		phone = addr.Telephone
	}

	return models.Party{
		FirstName:            addr.FirstName,
		LastName:             addr.LastName,
		Gender:               models.ParseGender(info.CustomerGender),
		Street:               street,
		PostalCode:           addr.PostalCode,
		City:                 addr.City,
		CountryCode:          addr.CountryCode,
		Email:                addr.Email,
		Phone:                phone,
		IdentificationNumber: info.IdentificationNumber,
		BirthDate:            info.NormalizeDoB(),
	}
}
