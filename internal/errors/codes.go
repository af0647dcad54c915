package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email or password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED" // logged out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden  = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly  = "AUTHZ_ADMIN_ONLY"
	AuthzAgentOnly  = "AUTHZ_AGENT_ONLY"
	AuthzOwnerOnly  = "AUTHZ_OWNER_ONLY"
	AuthzRoleAbsent = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Applications (APPLICATION_) ====================
	ApplicationNotFound      = "APPLICATION_NOT_FOUND"
	ApplicationExists        = "APPLICATION_EXISTS"      // one application per email
	ApplicationInvalidStatus = "APPLICATION_INVALID_STATUS" // transition not allowed
	ApplicationNoDocument    = "APPLICATION_NO_DOCUMENT"

	// ==================== Agents and invites (AGENT_, INVITE_) ====================
	AgentNotFound  = "AGENT_NOT_FOUND"
	AgentExists    = "AGENT_EXISTS"
	InviteNotFound = "INVITE_NOT_FOUND"
	InviteExpired  = "INVITE_EXPIRED"
	InviteUsed     = "INVITE_USED"

	// ==================== PIN codes (PINCODE_) ====================
	PincodeInvalid  = "PINCODE_INVALID"
	PincodeNotFound = "PINCODE_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
