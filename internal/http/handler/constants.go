package handler

const (
	jsonKeyMessage = "message"

	tokenTypeBearer = "Bearer"

	queryLimit  = "limit"
	queryOffset = "offset"
)

const (
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "Invalid request body"
	msgEmptyRequestBody        = "Request body is empty"
	msgInvalidPagination       = "limit and offset must be non-negative integers"
	msgGenerateTokenFail       = "Failed to generate token"
	msgLoggedOut               = "Logged out successfully"
	msgRoleUpdatedFmt          = "User role updated successfully to %s"
)
