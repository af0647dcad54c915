package model

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "pending"
	StatusApproved   ApplicationStatus = "approved"
	StatusRejected   ApplicationStatus = "rejected"
	StatusAgreement  ApplicationStatus = "agreement"    // agreement sent after approval
	StatusOneTimeFee ApplicationStatus = "one_time_fee" // onboarding fee verified
)

// Application is a submitted franchise application. JSON names follow the
// form field names so clients can use one vocabulary for both.
type Application struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	ReferenceNumber string            `gorm:"uniqueIndex;not null" json:"referenceNumber"`
	Status          ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AgentID         *uint             `gorm:"index" json:"agentId,omitempty"`
	ProposalID      *uint             `gorm:"index" json:"proposalId,omitempty"`

	// identity
	FullName      string `gorm:"not null" json:"fullName"`
	FatherName    string `json:"fatherName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Nationality   string `json:"nationality"`
	PANNumber     string `gorm:"index" json:"panNumber"`
	AadharNumber  string `json:"aadharNumber"`

	// contact
	Email                 string `gorm:"uniqueIndex:idx_applications_email,where:deleted_at IS NULL;not null" json:"email"`
	MobileNumber          string `gorm:"index" json:"mobileNumber"`
	AlternateMobileNumber string `json:"alternateMobileNumber"`
	WhatsappNumber        string `json:"whatsappNumber"`

	ResidentialAddress  string `json:"residentialAddress"`
	ResidentialCity     string `json:"residentialCity"`
	ResidentialDistrict string `json:"residentialDistrict"`
	ResidentialState    string `json:"residentialState"`
	ResidentialPinCode  string `json:"residentialPinCode"`

	OfficeAddress  string `json:"officeAddress"`
	OfficeCity     string `json:"officeCity"`
	OfficeDistrict string `json:"officeDistrict"`
	OfficeState    string `json:"officeState"`
	OfficePinCode  string `json:"officePinCode"`

	BusinessName      string `json:"businessName"`
	BusinessType      string `json:"businessType"`
	GSTNumber         string `json:"gstNumber"`
	YearsInBusiness   *int   `json:"yearsInBusiness,omitempty"`
	CurrentOccupation string `json:"currentOccupation"`
	AnnualTurnover    string `json:"annualTurnover"`

	FranchiseAddress  string  `json:"franchiseAddress"`
	FranchiseCity     string  `gorm:"index" json:"franchiseCity"`
	FranchiseDistrict string  `json:"franchiseDistrict"`
	FranchiseState    string  `gorm:"index" json:"franchiseState"`
	FranchisePinCode  string  `gorm:"index" json:"franchisePinCode"`
	FranchiseType     string  `json:"franchiseType"`
	PropertyOwnership string  `json:"propertyOwnership"`
	TotalSpace        float64 `json:"totalSpace"`
	PreferredLocation string  `json:"preferredLocation"`

	InvestmentCapacity string `json:"investmentCapacity"`
	SourceOfFunds      string `json:"sourceOfFunds"`
	NetWorth           string `json:"netWorth"`
	CreditScore        string `json:"creditScore"`
	HasLoans           bool   `json:"hasLoans"`
	LoanDetails        string `json:"loanDetails"`

	HasVehicles                bool   `json:"hasVehicles"`
	VehicleDetails             string `json:"vehicleDetails"`
	HasLogisticsExperience     bool   `json:"hasLogisticsExperience"`
	LogisticsExperienceDetails string `json:"logisticsExperienceDetails"`
	EmployeeCount              int    `json:"employeeCount"`
	StaffCount                 int    `json:"staffCount"`
	ExpectedDailyShipments     string `json:"expectedDailyShipments"`
	HasOtherFranchise          bool   `json:"hasOtherFranchise"`
	OtherFranchiseDetails      string `json:"otherFranchiseDetails"`
	HasLegalIssues             bool   `json:"hasLegalIssues"`
	LegalIssueDetails          string `json:"legalIssueDetails"`

	HighestQualification string `json:"highestQualification"`
	LanguagesKnown       string `json:"languagesKnown"`
	ComputerKnowledge    string `json:"computerKnowledge"`

	Reference1Name     string `json:"reference1Name"`
	Reference1Mobile   string `json:"reference1Mobile"`
	Reference1Relation string `json:"reference1Relation"`
	Reference2Name     string `json:"reference2Name"`
	Reference2Mobile   string `json:"reference2Mobile"`
	Reference2Relation string `json:"reference2Relation"`

	BankName          string `json:"bankName"`
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	BranchName        string `json:"branchName"`

	AgreeTerms             bool `json:"agreeTerms"`
	AgreePrivacy           bool `json:"agreePrivacy"`
	DeclarationAccepted    bool `json:"declarationAccepted"`
	ConsentBackgroundCheck bool `json:"consentBackgroundCheck"`

	// Documents maps the multipart field name (photo, aadharCard, ...) to
	// the storage key of the uploaded file.
	Documents      map[string]string `gorm:"serializer:json" json:"documents"`
	OtherDocuments []string          `gorm:"serializer:json" json:"otherDocuments"`

	Remarks           string     `gorm:"type:text" json:"remarks"`
	PaymentReference  string     `json:"paymentReference,omitempty"`
	PaymentVerifiedAt *time.Time `json:"paymentVerifiedAt,omitempty"`
	ReviewedBy        *uint      `json:"reviewedBy,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Agent *Agent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationFilter narrows admin and agent listings.
type ApplicationFilter struct {
	Status  ApplicationStatus
	AgentID *uint
	Search  string // matches name, email, mobile or reference number
	Page    int
	Limit   int
}

// ApplicationStats counts applications per status.
type ApplicationStats struct {
	Total    int64                       `json:"total"`
	ByStatus map[ApplicationStatus]int64 `json:"byStatus"`
	Today    int64                       `json:"today"`
	Agents   int64                       `json:"agents"`
	Open     int64                       `json:"openProposals"`
}
