package portalclient

import "time"

// CreateResponse is the body returned by POST /api/createApplication
type CreateResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	ReferenceNumber string `json:"referenceNumber,omitempty"`
}

// Application is the subset of a stored application the form needs
type Application struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	Status          string    `json:"status"`
	ReferenceNumber string    `json:"referenceNumber"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LookupResponse is the body returned by GET /api/getApplication/email/:email
type LookupResponse struct {
	Success     bool         `json:"success"`
	Application *Application `json:"application"`
}

// Invite describes an agent proposal link
type Invite struct {
	Valid            bool      `json:"valid"`
	AgentName        string    `json:"agentName"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	MobileNumber     string    `json:"mobileNumber"`
	FranchisePinCode string    `json:"franchisePinCode"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
