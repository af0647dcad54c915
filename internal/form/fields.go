package form

// Kind describes how a field value is interpreted.
type Kind int

const (
	KindText Kind = iota
	KindBool
	KindNumber
)

// Section groups fields the way the application form renders them.
type Section string

const (
	SectionIdentity       Section = "identity"
	SectionContact        Section = "contact"
	SectionResidential    Section = "residential_address"
	SectionOffice         Section = "office_address"
	SectionBusiness       Section = "business"
	SectionFranchiseSite  Section = "franchise_site"
	SectionFinancial      Section = "financial"
	SectionLogistics      Section = "logistics"
	SectionQualifications Section = "qualifications"
	SectionReferences     Section = "references"
	SectionBank           Section = "bank"
	SectionConsents       Section = "consents"
)

// Field is one entry of the application field model.
type Field struct {
	Name     string
	Label    string
	Section  Section
	Kind     Kind
	Required bool
	Default  string
}

// Field names. They double as the multipart field names on the wire.
const (
	FieldFullName      = "fullName"
	FieldFatherName    = "fatherName"
	FieldDateOfBirth   = "dateOfBirth"
	FieldGender        = "gender"
	FieldMaritalStatus = "maritalStatus"
	FieldNationality   = "nationality"
	FieldPANNumber     = "panNumber"
	FieldAadharNumber  = "aadharNumber"

	FieldEmail                 = "email"
	FieldMobileNumber          = "mobileNumber"
	FieldAlternateMobileNumber = "alternateMobileNumber"
	FieldWhatsappNumber        = "whatsappNumber"

	FieldResidentialAddress  = "residentialAddress"
	FieldResidentialCity     = "residentialCity"
	FieldResidentialDistrict = "residentialDistrict"
	FieldResidentialState    = "residentialState"
	FieldResidentialPinCode  = "residentialPinCode"

	FieldOfficeAddress  = "officeAddress"
	FieldOfficeCity     = "officeCity"
	FieldOfficeDistrict = "officeDistrict"
	FieldOfficeState    = "officeState"
	FieldOfficePinCode  = "officePinCode"

	FieldBusinessName      = "businessName"
	FieldBusinessType      = "businessType"
	FieldGSTNumber         = "gstNumber"
	FieldYearsInBusiness   = "yearsInBusiness"
	FieldCurrentOccupation = "currentOccupation"
	FieldAnnualTurnover    = "annualTurnover"

	FieldFranchiseAddress  = "franchiseAddress"
	FieldFranchiseCity     = "franchiseCity"
	FieldFranchiseDistrict = "franchiseDistrict"
	FieldFranchiseState    = "franchiseState"
	FieldFranchisePinCode  = "franchisePinCode"
	FieldFranchiseType     = "franchiseType"
	FieldPropertyOwnership = "propertyOwnership"
	FieldTotalSpace        = "totalSpace"
	FieldPreferredLocation = "preferredLocation"

	FieldInvestmentCapacity = "investmentCapacity"
	FieldSourceOfFunds      = "sourceOfFunds"
	FieldNetWorth           = "netWorth"
	FieldCreditScore        = "creditScore"
	FieldHasLoans           = "hasLoans"
	FieldLoanDetails        = "loanDetails"

	FieldHasVehicles                = "hasVehicles"
	FieldVehicleDetails             = "vehicleDetails"
	FieldHasLogisticsExperience     = "hasLogisticsExperience"
	FieldLogisticsExperienceDetails = "logisticsExperienceDetails"
	FieldEmployeeCount              = "employeeCount"
	FieldStaffCount                 = "staffCount"
	FieldExpectedDailyShipments     = "expectedDailyShipments"
	FieldHasOtherFranchise          = "hasOtherFranchise"
	FieldOtherFranchiseDetails      = "otherFranchiseDetails"
	FieldHasLegalIssues             = "hasLegalIssues"
	FieldLegalIssueDetails          = "legalIssueDetails"

	FieldHighestQualification = "highestQualification"
	FieldLanguagesKnown       = "languagesKnown"
	FieldComputerKnowledge    = "computerKnowledge"

	FieldReference1Name     = "reference1Name"
	FieldReference1Mobile   = "reference1Mobile"
	FieldReference1Relation = "reference1Relation"
	FieldReference2Name     = "reference2Name"
	FieldReference2Mobile   = "reference2Mobile"
	FieldReference2Relation = "reference2Relation"

	FieldBankName          = "bankName"
	FieldAccountHolderName = "accountHolderName"
	FieldAccountNumber     = "accountNumber"
	FieldIFSCCode          = "ifscCode"
	FieldBranchName        = "branchName"

	FieldAgreeTerms             = "agreeTerms"
	FieldAgreePrivacy           = "agreePrivacy"
	FieldDeclarationAccepted    = "declarationAccepted"
	FieldConsentBackgroundCheck = "consentBackgroundCheck"

	FieldInviteToken = "inviteToken"
)

func text(name, label string, s Section, required bool) Field {
	return Field{Name: name, Label: label, Section: s, Kind: KindText, Required: required}
}

func boolean(name, label string, s Section) Field {
	return Field{Name: name, Label: label, Section: s, Kind: KindBool, Required: true}
}

func number(name, label string, s Section, required bool) Field {
	return Field{Name: name, Label: label, Section: s, Kind: KindNumber, Required: required}
}

// Fields is the ordered field model. Order is the order fields are written
// to the multipart payload.
var Fields = []Field{
	text(FieldFullName, "Full name", SectionIdentity, true),
	text(FieldFatherName, "Father's name", SectionIdentity, true),
	text(FieldDateOfBirth, "Date of birth", SectionIdentity, true),
	text(FieldGender, "Gender", SectionIdentity, true),
	text(FieldMaritalStatus, "Marital status", SectionIdentity, false),
	{Name: FieldNationality, Label: "Nationality", Section: SectionIdentity, Kind: KindText, Required: true, Default: "Indian"},
	text(FieldPANNumber, "PAN number", SectionIdentity, true),
	text(FieldAadharNumber, "Aadhar number", SectionIdentity, true),

	text(FieldEmail, "Email", SectionContact, true),
	text(FieldMobileNumber, "Mobile number", SectionContact, true),
	text(FieldAlternateMobileNumber, "Alternate mobile number", SectionContact, false),
	text(FieldWhatsappNumber, "WhatsApp number", SectionContact, false),

	text(FieldResidentialAddress, "Residential address", SectionResidential, true),
	text(FieldResidentialCity, "Residential city", SectionResidential, true),
	text(FieldResidentialDistrict, "Residential district", SectionResidential, false),
	text(FieldResidentialState, "Residential state", SectionResidential, true),
	text(FieldResidentialPinCode, "Residential PIN code", SectionResidential, true),

	text(FieldOfficeAddress, "Office address", SectionOffice, false),
	text(FieldOfficeCity, "Office city", SectionOffice, false),
	text(FieldOfficeDistrict, "Office district", SectionOffice, false),
	text(FieldOfficeState, "Office state", SectionOffice, false),
	text(FieldOfficePinCode, "Office PIN code", SectionOffice, false),

	text(FieldBusinessName, "Business name", SectionBusiness, false),
	text(FieldBusinessType, "Business type", SectionBusiness, true),
	text(FieldGSTNumber, "GST number", SectionBusiness, false),
	number(FieldYearsInBusiness, "Years in business", SectionBusiness, false),
	text(FieldCurrentOccupation, "Current occupation", SectionBusiness, true),
	text(FieldAnnualTurnover, "Annual turnover", SectionBusiness, false),

	text(FieldFranchiseAddress, "Franchise address", SectionFranchiseSite, true),
	text(FieldFranchiseCity, "Franchise city", SectionFranchiseSite, true),
	text(FieldFranchiseDistrict, "Franchise district", SectionFranchiseSite, false),
	text(FieldFranchiseState, "Franchise state", SectionFranchiseSite, true),
	text(FieldFranchisePinCode, "Franchise PIN code", SectionFranchiseSite, true),
	text(FieldFranchiseType, "Franchise type", SectionFranchiseSite, true),
	text(FieldPropertyOwnership, "Property ownership", SectionFranchiseSite, true),
	number(FieldTotalSpace, "Total space", SectionFranchiseSite, true),
	text(FieldPreferredLocation, "Preferred location", SectionFranchiseSite, false),

	text(FieldInvestmentCapacity, "Investment capacity", SectionFinancial, true),
	text(FieldSourceOfFunds, "Source of funds", SectionFinancial, true),
	text(FieldNetWorth, "Net worth", SectionFinancial, false),
	text(FieldCreditScore, "Credit score", SectionFinancial, false),
	boolean(FieldHasLoans, "Existing loans", SectionFinancial),
	text(FieldLoanDetails, "Loan details", SectionFinancial, false),

	boolean(FieldHasVehicles, "Owns vehicles", SectionLogistics),
	text(FieldVehicleDetails, "Vehicle details", SectionLogistics, false),
	boolean(FieldHasLogisticsExperience, "Logistics experience", SectionLogistics),
	text(FieldLogisticsExperienceDetails, "Logistics experience details", SectionLogistics, false),
	number(FieldEmployeeCount, "Employee count", SectionLogistics, true),
	number(FieldStaffCount, "Staff count", SectionLogistics, true),
	text(FieldExpectedDailyShipments, "Expected daily shipments", SectionLogistics, false),
	boolean(FieldHasOtherFranchise, "Other franchise", SectionLogistics),
	text(FieldOtherFranchiseDetails, "Other franchise details", SectionLogistics, false),
	boolean(FieldHasLegalIssues, "Legal issues", SectionLogistics),
	text(FieldLegalIssueDetails, "Legal issue details", SectionLogistics, false),

	text(FieldHighestQualification, "Highest qualification", SectionQualifications, true),
	text(FieldLanguagesKnown, "Languages known", SectionQualifications, false),
	text(FieldComputerKnowledge, "Computer knowledge", SectionQualifications, false),

	text(FieldReference1Name, "Reference 1 name", SectionReferences, true),
	text(FieldReference1Mobile, "Reference 1 mobile", SectionReferences, true),
	text(FieldReference1Relation, "Reference 1 relation", SectionReferences, false),
	text(FieldReference2Name, "Reference 2 name", SectionReferences, false),
	text(FieldReference2Mobile, "Reference 2 mobile", SectionReferences, false),
	text(FieldReference2Relation, "Reference 2 relation", SectionReferences, false),

	text(FieldBankName, "Bank name", SectionBank, true),
	text(FieldAccountHolderName, "Account holder name", SectionBank, true),
	text(FieldAccountNumber, "Account number", SectionBank, true),
	text(FieldIFSCCode, "IFSC code", SectionBank, true),
	text(FieldBranchName, "Branch name", SectionBank, false),

	boolean(FieldAgreeTerms, "Terms and conditions", SectionConsents),
	boolean(FieldAgreePrivacy, "Privacy policy", SectionConsents),
	boolean(FieldDeclarationAccepted, "Declaration", SectionConsents),
	boolean(FieldConsentBackgroundCheck, "Background check consent", SectionConsents),

	text(FieldInviteToken, "Invite token", SectionConsents, false),
}

var fieldIndex = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the field definition for name.
func Lookup(name string) (Field, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

// RequiredFields returns the enumerated list of required field names.
func RequiredFields() []string {
	names := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}
