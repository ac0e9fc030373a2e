package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Group partitions the flat parameter sequence into logical entities.
type Group string

const (
	GroupBillingCustomer  Group = "BillingCustomer"
	GroupShippingCustomer Group = "ShippingCustomer"
	GroupArticle          Group = "Article"
)

// IsValid checks if the group is one of the supported wire tags.
func (g Group) IsValid() bool {
	switch g {
	case GroupBillingCustomer, GroupShippingCustomer, GroupArticle:
		return true
	}
	return false
}

// ParameterRecord is the atomic wire unit of a gateway request. The gateway
// correlates records sharing the same (Group, GroupIndex) pair into one
// logical entity: a party or an article line.
type ParameterRecord struct {
	Value      string `json:"_"`
	Name       string `json:"Name"`
	Group      Group  `json:"Group"`
	GroupIndex string `json:"GroupID"`
}

// ArticleIndex formats a 1-based article counter as a wire group index.
func ArticleIndex(n int) string {
	return strconv.Itoa(n)
}

// Gender is the gateway's customer gender representation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender maps the checkout's raw gender flag onto the wire value.
// "1" means male; everything else, including absent, is female.
func ParseGender(raw string) Gender {
	if raw == "1" {
		return GenderMale
	}
	return GenderFemale
}

// StreetParts is a street line decomposed into name, house number and
// number suffix. HouseNumber and NumberSuffix are empty when the raw line
// carried no numeric token.
type StreetParts struct {
	Street       string
	HouseNumber  string
	NumberSuffix string
}

// Party is a billing or shipping person plus address, ready for encoding
// into a single customer group.
type Party struct {
	FirstName            string
	LastName             string
	Gender               Gender
	Street               StreetParts
	PostalCode           string
	City                 string
	CountryCode          string
	Email                string
	Phone                string
	IdentificationNumber string
	BirthDate            string
}

// LineItem is one article line as handed to the line encoder. SequenceKey is
// the 1-based position assigned by the builder, not a catalog property.
type LineItem struct {
	SequenceKey    int
	Description    string
	Identifier     string
	Quantity       float64
	UnitPriceGross float64
	VatPercent     float64
	// HasVat distinguishes "0%" from "not provided"; an absent VAT is
	// emitted as an empty string on the wire.
	HasVat bool
}

// Envelope names the gateway service invocation wrapping the records.
type Envelope struct {
	Name                   string `json:"name"`
	Action                 string `json:"action"`
	Version                int    `json:"version"`
	Method                 string `json:"method"`
	Channel                string `json:"channel,omitempty"`
	OriginalTransactionKey string `json:"original_transaction_key,omitempty"`
	InvoiceID              string `json:"invoice_id,omitempty"`
}

// RequestPayload is the full assembled request for one transaction attempt.
type RequestPayload struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Envelope      Envelope          `json:"envelope"`
	Records       []ParameterRecord `json:"records"`
	AssembledAt   time.Time         `json:"assembled_at"`
}

// TransactionResult is the submitter's view of the gateway response.
type TransactionResult struct {
	TransactionKey string `json:"transaction_key"`
	StatusCode     int    `json:"status_code"`
	Success        bool   `json:"success"`
	FailureMessage string `json:"failure_message,omitempty"`
}

// Carrier identifies a pickup-capable shipping carrier.
type Carrier string

const (
	CarrierDPD       Carrier = "dpd"
	CarrierDHL       Carrier = "dhl"
	CarrierSendcloud Carrier = "sendcloud"
	CarrierMyParcel  Carrier = "myparcel"
)

// IsValid checks if the carrier is one of the supported pickup carriers.
func (c Carrier) IsValid() bool {
	switch c {
	case CarrierDPD, CarrierDHL, CarrierSendcloud, CarrierMyParcel:
		return true
	}
	return false
}

// PickupLocation is a carrier-provided pickup point address. Field values
// already match the gateway's address vocabulary; empty fields are skipped
// when patching an encoded shipping group.
type PickupLocation struct {
	Street       string
	PostalCode   string
	City         string
	CountryCode  string
	HouseNumber  string
	NumberSuffix string
}
