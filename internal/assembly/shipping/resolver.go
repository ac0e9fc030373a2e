// Package shipping decides whether an order's shipping address must be
// replaced or patched with a carrier pickup-point address before the
// payload goes to the gateway.
package shipping

import (
	"context"
	"fmt"
	"log/slog"

	"paybridge/internal/assembly/models"
	"paybridge/internal/assembly/ports"
	dErrors "paybridge/pkg/domain-errors"
)

// Shipping method codes that trigger pickup-point handling.
const (
	MethodDPDPickup        = "dpdpickup_dpdpickup"
	MethodDHLServicePoint  = "dhlparcel_servicepoint"
	MethodSendcloud        = "sendcloud_sendcloud"
	MethodMyParcelDelivery = "myparcel_delivery"
)

// Patch overwrites one field of an already-encoded shipping group.
type Patch struct {
	Name  string
	Value string
}

// Resolution is the resolver's verdict for one order. ReplacementAddress,
// when set, substitutes the shipping address before encoding; Patches apply
// to the encoded shipping group afterwards. Both may be empty, in which
// case the order's own shipping address stands.
type Resolution struct {
	ReplacementAddress *models.Address
	Patches            []Patch
}

// Resolver evaluates the pickup-point decision table.
type Resolver struct {
	cart   ports.CartSource
	points ports.PickupPointSource
	logger *slog.Logger
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func New(cart ports.CartSource, points ports.PickupPointSource, opts ...Option) (*Resolver, error) {
	if cart == nil {
		return nil, fmt.Errorf("cart source is required")
	}
	if points == nil {
		return nil, fmt.Errorf("pickup point source is required")
	}

	r := &Resolver{cart: cart, points: points}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve walks the decision table in order. Rows targeting different
// stages (replacement vs. patch) can combine; the first matching
// replacement row wins over later replacement rows.
func (r *Resolver) Resolve(ctx context.Context, order *models.Order) (*Resolution, error) {
	if order == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "order is required")
	}

	res := &Resolution{}

	// Parcel-locker carrier: full replacement from the carrier lookup when
	// the quote carries a parcel reference.
	if order.ShippingMethod == MethodDPDPickup {
		ref, err := r.cart.ParcelReference(ctx, order.QuoteID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read parcel reference")
		}
		if ref != "" {
			location, err := r.points.Locate(ctx, models.CarrierDPD, ref)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to locate parcel locker")
			}
			if location != nil {
				res.ReplacementAddress = addressFromLocation(order, location)
			}
		}
	}

	// Service-point carriers: field patches against the encoded group.
	if carrier, ok := servicePointCarrier(order.ShippingMethod); ok && order.ServicePointID != "" {
		location, err := r.points.Locate(ctx, carrier, order.ServicePointID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to locate service point")
		}
		if location != nil {
			res.Patches = append(res.Patches, locationPatches(location)...)
		}
	}

	// Carrier-agnostic pickup flow: an address attached to the quote
	// replaces the computed shipping address wholesale. A parcel-locker
	// replacement already decided above takes precedence.
	if res.ReplacementAddress == nil {
		pickup, err := r.cart.PickupAddress(ctx, order.QuoteID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read quote pickup address")
		}
		if pickup != nil && !pickup.IsZero() {
			res.ReplacementAddress = pickup
		}
	}

	if r.logger != nil && (res.ReplacementAddress != nil || len(res.Patches) > 0) {
		r.logger.DebugContext(ctx, "shipping address overridden",
			"order_id", order.ID,
			"shipping_method", order.ShippingMethod,
			"replaced", res.ReplacementAddress != nil,
			"patches", len(res.Patches),
		)
	}

	return res, nil
}

func servicePointCarrier(method string) (models.Carrier, bool) {
	switch method {
	case MethodDHLServicePoint:
		return models.CarrierDHL, true
	case MethodSendcloud:
		return models.CarrierSendcloud, true
	case MethodMyParcelDelivery:
		return models.CarrierMyParcel, true
	}
	return "", false
}

// addressFromLocation keeps the recipient's name and contact details while
// swapping in the pickup location's address fields.
func addressFromLocation(order *models.Order, loc *models.PickupLocation) *models.Address {
	base := order.ShippingAddress
	if base == nil {
		base = order.BillingAddress
	}

	addr := models.Address{
		Street:      joinStreet(loc),
		PostalCode:  loc.PostalCode,
		City:        loc.City,
		CountryCode: loc.CountryCode,
	}
	if base != nil {
		addr.FirstName = base.FirstName
		addr.LastName = base.LastName
		addr.Email = base.Email
		addr.Telephone = base.Telephone
	}
	return &addr
}

func joinStreet(loc *models.PickupLocation) string {
	street := loc.Street
	if loc.HouseNumber != "" {
		street += " " + loc.HouseNumber
	}
	if loc.NumberSuffix != "" {
		street += loc.NumberSuffix
	}
	return street
}

// locationPatches maps a pickup location onto the shipping group's field
// names. Empty values are skipped so partial carrier data never blanks out
// fields already present on the encoded group.
func locationPatches(loc *models.PickupLocation) []Patch {
	mapping := []Patch{
		{Name: "Street", Value: loc.Street},
		{Name: "PostalCode", Value: loc.PostalCode},
		{Name: "City", Value: loc.City},
		{Name: "Country", Value: loc.CountryCode},
		{Name: "StreetNumber", Value: loc.HouseNumber},
		{Name: "StreetNumberAdditional", Value: loc.NumberSuffix},
	}

	patches := make([]Patch, 0, len(mapping))
	for _, p := range mapping {
		if p.Value != "" {
			patches = append(patches, p)
		}
	}
	return patches
}

// Apply applies patches to an encoded record sequence by (group, name)
// lookup, returning a new sequence. Records missing from the group are
// appended with an empty group index.
func Apply(records []models.ParameterRecord, group models.Group, patches []Patch) []models.ParameterRecord {
	if len(patches) == 0 {
		return records
	}

	out := make([]models.ParameterRecord, len(records))
	copy(out, records)

	for _, patch := range patches {
		found := false
		for i := range out {
			if out[i].Group == group && out[i].Name == patch.Name {
				out[i].Value = patch.Value
				found = true
			}
		}
		if !found {
			out = append(out, models.ParameterRecord{
				Value:      patch.Value,
				Name:       patch.Name,
				Group:      group,
				GroupIndex: "",
			})
		}
	}
	return out
}
