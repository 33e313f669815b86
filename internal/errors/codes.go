package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes onto its own messages.

const (
	// ==================== auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong login/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthLoginExists        = "AUTH_LOGIN_EXISTS" // duplicate account login

	// ==================== authz (AUTHZ_) ====================
	AuthzForbidden     = "AUTHZ_FORBIDDEN"      // capability check failed
	AuthzRoleNotFound  = "AUTHZ_ROLE_NOT_FOUND" // role info missing from context
	AuthzOwnerOnly     = "AUTHZ_OWNER_ONLY"
	AuthzScopeViolated = "AUTHZ_SCOPE_VIOLATED" // account limited to other businesses

	// ==================== validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidPeriod = "VALIDATION_INVALID_PERIOD" // bad month/year pair
	ValidationUnknownKey    = "VALIDATION_UNKNOWN_KEY"    // unknown permission key in override
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== businesses (BUSINESS_) ====================
	BusinessNotFound        = "BUSINESS_NOT_FOUND"
	BusinessAlreadyAssigned = "BUSINESS_ALREADY_ASSIGNED"
	BusinessInvalidStatus   = "BUSINESS_INVALID_STATUS"

	// ==================== periods (PERIOD_) ====================
	PeriodNotFound = "PERIOD_NOT_FOUND" // no record for (business, month, year)
	PeriodExists   = "PERIOD_EXISTS"

	// ==================== accounts (ACCOUNT_) ====================
	AccountNotFound  = "ACCOUNT_NOT_FOUND"
	AccountLastOwner = "ACCOUNT_LAST_OWNER" // cannot delete the only owner

	// ==================== tasks / documents ====================
	TaskNotFound       = "TASK_NOT_FOUND"
	AttachmentNotFound = "ATTACHMENT_NOT_FOUND"
	UploadInvalidType  = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed       = "UPLOAD_FAILED"

	// ==================== internal (INTERNAL_ / CONFIG_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	ConfigOwnerSeed       = "CONFIG_OWNER_SEED_FAILED" // owner self-heal failed, fatal
)
