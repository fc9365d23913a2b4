package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients branch on these codes instead of parsing messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access to resource
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // no permission for operation
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role claim missing
	AuthzSellerOnly   = "AUTHZ_SELLER_ONLY"    // seller-only operation
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // resource owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Items (ITEM_) ====================
	ItemNotFound        = "ITEM_NOT_FOUND"
	ItemUnavailable     = "ITEM_UNAVAILABLE"      // delisted or sold out
	ItemInvalidCategory = "ITEM_INVALID_CATEGORY" // unknown category value
	ItemInvalidPricing  = "ITEM_INVALID_PRICING"  // discount >= price, etc.

	// ==================== Cart (CART_) ====================
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"
	CartOwnItem         = "CART_OWN_ITEM" // sellers cannot buy their own items
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartQuantityCapped  = "CART_QUANTITY_CAPPED" // requested more than in stock

	// ==================== Orders / checkout (ORDER_, CHECKOUT_) ====================
	OrderNotFound        = "ORDER_NOT_FOUND"
	OrderInvalidStatus   = "ORDER_INVALID_STATUS"
	OrderNotCancellable  = "ORDER_NOT_CANCELLABLE"
	CheckoutEmptyCart    = "CHECKOUT_EMPTY_CART"
	CheckoutOutOfStock   = "CHECKOUT_OUT_OF_STOCK"
	CheckoutItemDelisted = "CHECKOUT_ITEM_DELISTED"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // rating outside 1..5
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // one review per order line
	ReviewNotEligible   = "REVIEW_NOT_ELIGIBLE"   // no delivered purchase
	ReviewOwnItem       = "REVIEW_OWN_ITEM"       // sellers cannot review own items

	// ==================== Promotions (PROMO_) ====================
	PromoNotFound     = "PROMO_NOT_FOUND"
	PromoInactive     = "PROMO_INACTIVE"
	PromoInvalidScope = "PROMO_INVALID_SCOPE"
	PromoInvalidValue = "PROMO_INVALID_VALUE"

	// ==================== Profiles (PROFILE_) ====================
	ProfileNotFound = "PROFILE_NOT_FOUND"

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
