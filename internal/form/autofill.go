package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikkim/franchise-portal/pkg/pincode"
)

// PincodeLookup resolves a PIN code to a place.
type PincodeLookup interface {
	Lookup(ctx context.Context, code string) (*pincode.Place, error)
}

type addressFields struct {
	pin, city, district, state string
}

var addressSections = map[Section]addressFields{
	SectionResidential:   {FieldResidentialPinCode, FieldResidentialCity, FieldResidentialDistrict, FieldResidentialState},
	SectionOffice:        {FieldOfficePinCode, FieldOfficeCity, FieldOfficeDistrict, FieldOfficeState},
	SectionFranchiseSite: {FieldFranchisePinCode, FieldFranchiseCity, FieldFranchiseDistrict, FieldFranchiseState},
}

// Autofill looks up the PIN code of an address section and fills its city,
// district and state. Nothing is looked up until the PIN code is complete.
// Fields the lookup has no value for are left alone.
func Autofill(ctx context.Context, d Draft, lookup PincodeLookup, section Section) (Draft, error) {
	fields, ok := addressSections[section]
	if !ok {
		return d, fmt.Errorf("section %s has no address", section)
	}

	code := strings.TrimSpace(d.Get(fields.pin))
	if !pinCodePattern.MatchString(code) {
		return d, nil
	}

	place, err := lookup.Lookup(ctx, code)
	if err != nil {
		return d, err
	}

	out := d.Clone()
	if place.City != "" {
		out.Values[fields.city] = place.City
	}
	if place.District != "" {
		out.Values[fields.district] = place.District
	}
	if place.State != "" {
		out.Values[fields.state] = place.State
	}
	return out, nil
}
