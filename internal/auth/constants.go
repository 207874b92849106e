package auth

const (
	ContextKeyPrincipal = "principal"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	// RolePrefix marks the coarse role authority on a Principal.
	RolePrefix = "ROLE_"
)

const (
	msgAuthenticationRequired  = "authentication required"
	msgInsufficientRole        = "insufficient role"
	msgInsufficientAuthority   = "insufficient permission"
	msgInvalidPrincipalCtx     = "invalid principal in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgEmptySubject            = "cannot issue token for empty subject"
	msgSignTokenFailed         = "failed to sign token: %w"
	msgGenerateKeyFailed       = "failed to generate signing key: %w"
	msgTokenInvalidFmt         = "invalid token (%s)"
	msgSkipAuthFmt             = "request %s continues anonymously: %s"
	msgDirectoryLookupFmt      = "request %s continues anonymously: subject lookup failed: %v"
)

const (
	weakReasonEmpty      = "secret is empty"
	weakReasonTooShort   = "secret is shorter than 32 characters"
	weakReasonLowEntropy = "secret has insufficient entropy"
)
