package service

import (
	"fmt"
	"math"

	"github.com/ikkim/franchise-portal/internal/app/model"
	"github.com/ikkim/franchise-portal/internal/form"
)

// applicationFromDraft copies a validated draft into a new record.
func applicationFromDraft(d form.Draft) (*model.Application, error) {
	totalSpace, err := parseNumber(d, form.FieldTotalSpace)
	if err != nil {
		return nil, err
	}
	employees, err := parseCount(d, form.FieldEmployeeCount)
	if err != nil {
		return nil, err
	}
	staff, err := parseCount(d, form.FieldStaffCount)
	if err != nil {
		return nil, err
	}

	// years in business is free text on the form; keep it only when numeric
	var years *int
	if n, err := parseCount(d, form.FieldYearsInBusiness); err == nil && d.Get(form.FieldYearsInBusiness) != "" {
		years = &n
	}

	yes := func(name string) bool { return d.Bool(name) == form.True }

	return &model.Application{
		FullName:      d.Get(form.FieldFullName),
		FatherName:    d.Get(form.FieldFatherName),
		DateOfBirth:   d.Get(form.FieldDateOfBirth),
		Gender:        d.Get(form.FieldGender),
		MaritalStatus: d.Get(form.FieldMaritalStatus),
		Nationality:   d.Get(form.FieldNationality),
		PANNumber:     d.Get(form.FieldPANNumber),
		AadharNumber:  d.Get(form.FieldAadharNumber),

		Email:                 d.Get(form.FieldEmail),
		MobileNumber:          d.Get(form.FieldMobileNumber),
		AlternateMobileNumber: d.Get(form.FieldAlternateMobileNumber),
		WhatsappNumber:        d.Get(form.FieldWhatsappNumber),

		ResidentialAddress:  d.Get(form.FieldResidentialAddress),
		ResidentialCity:     d.Get(form.FieldResidentialCity),
		ResidentialDistrict: d.Get(form.FieldResidentialDistrict),
		ResidentialState:    d.Get(form.FieldResidentialState),
		ResidentialPinCode:  d.Get(form.FieldResidentialPinCode),

		OfficeAddress:  d.Get(form.FieldOfficeAddress),
		OfficeCity:     d.Get(form.FieldOfficeCity),
		OfficeDistrict: d.Get(form.FieldOfficeDistrict),
		OfficeState:    d.Get(form.FieldOfficeState),
		OfficePinCode:  d.Get(form.FieldOfficePinCode),

		BusinessName:      d.Get(form.FieldBusinessName),
		BusinessType:      d.Get(form.FieldBusinessType),
		GSTNumber:         d.Get(form.FieldGSTNumber),
		YearsInBusiness:   years,
		CurrentOccupation: d.Get(form.FieldCurrentOccupation),
		AnnualTurnover:    d.Get(form.FieldAnnualTurnover),

		FranchiseAddress:  d.Get(form.FieldFranchiseAddress),
		FranchiseCity:     d.Get(form.FieldFranchiseCity),
		FranchiseDistrict: d.Get(form.FieldFranchiseDistrict),
		FranchiseState:    d.Get(form.FieldFranchiseState),
		FranchisePinCode:  d.Get(form.FieldFranchisePinCode),
		FranchiseType:     d.Get(form.FieldFranchiseType),
		PropertyOwnership: d.Get(form.FieldPropertyOwnership),
		TotalSpace:        totalSpace,
		PreferredLocation: d.Get(form.FieldPreferredLocation),

		InvestmentCapacity: d.Get(form.FieldInvestmentCapacity),
		SourceOfFunds:      d.Get(form.FieldSourceOfFunds),
		NetWorth:           d.Get(form.FieldNetWorth),
		CreditScore:        d.Get(form.FieldCreditScore),
		HasLoans:           yes(form.FieldHasLoans),
		LoanDetails:        d.Get(form.FieldLoanDetails),

		HasVehicles:                yes(form.FieldHasVehicles),
		VehicleDetails:             d.Get(form.FieldVehicleDetails),
		HasLogisticsExperience:     yes(form.FieldHasLogisticsExperience),
		LogisticsExperienceDetails: d.Get(form.FieldLogisticsExperienceDetails),
		EmployeeCount:              employees,
		StaffCount:                 staff,
		ExpectedDailyShipments:     d.Get(form.FieldExpectedDailyShipments),
		HasOtherFranchise:          yes(form.FieldHasOtherFranchise),
		OtherFranchiseDetails:      d.Get(form.FieldOtherFranchiseDetails),
		HasLegalIssues:             yes(form.FieldHasLegalIssues),
		LegalIssueDetails:          d.Get(form.FieldLegalIssueDetails),

		HighestQualification: d.Get(form.FieldHighestQualification),
		LanguagesKnown:       d.Get(form.FieldLanguagesKnown),
		ComputerKnowledge:    d.Get(form.FieldComputerKnowledge),

		Reference1Name:     d.Get(form.FieldReference1Name),
		Reference1Mobile:   d.Get(form.FieldReference1Mobile),
		Reference1Relation: d.Get(form.FieldReference1Relation),
		Reference2Name:     d.Get(form.FieldReference2Name),
		Reference2Mobile:   d.Get(form.FieldReference2Mobile),
		Reference2Relation: d.Get(form.FieldReference2Relation),

		BankName:          d.Get(form.FieldBankName),
		AccountHolderName: d.Get(form.FieldAccountHolderName),
		AccountNumber:     d.Get(form.FieldAccountNumber),
		IFSCCode:          d.Get(form.FieldIFSCCode),
		BranchName:        d.Get(form.FieldBranchName),

		AgreeTerms:             yes(form.FieldAgreeTerms),
		AgreePrivacy:           yes(form.FieldAgreePrivacy),
		DeclarationAccepted:    yes(form.FieldDeclarationAccepted),
		ConsentBackgroundCheck: yes(form.FieldConsentBackgroundCheck),
	}, nil
}

func parseNumber(d form.Draft, name string) (float64, error) {
	v := d.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := form.ParseNumber(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidApplication, name)
	}
	return n, nil
}

// parseCount accepts "12" as well as "12.0".
func parseCount(d form.Draft, name string) (int, error) {
	n, err := parseNumber(d, name)
	if err != nil {
		return 0, err
	}
	n = math.Round(n)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidApplication, name)
	}
	return int(n), nil
}
