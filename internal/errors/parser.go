package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code and message
type ErrorInfo struct {
	Code    string // see codes.go
	Message string
}

// ParseError translates database and driver errors into user-facing error
// info. Sensitive internals stay hidden, but the message should be enough
// for the client to correct the request.
//
// When the driver returns a typed *pq.Error the SQLSTATE code is used;
// otherwise (e.g. the SQLite test driver) the message text is matched.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return parseDuplicateKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case "23503": // foreign_key_violation
			return parseForeignKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case "23502": // not_null_violation
			return parseNotNullError(pqErr.Column, context)
		case "23514": // check_violation
			return parseCheckConstraintError(pqErr.Constraint, context)
		}
	}

	// Fallback for drivers without SQLSTATE codes
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "not-null constraint") {
		return parseNotNullError(errStr, context)
	}
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr, context)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}
	if strings.Contains(errLower, "username") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "This username is already taken",
		}
	}
	if strings.Contains(errLower, "sku") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "An item with this SKU already exists",
		}
	}
	if strings.Contains(errLower, "reviews") &&
		(strings.Contains(errLower, "order_id") || strings.Contains(errLower, "item_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "You have already reviewed this item for this order",
		}
	}
	if strings.Contains(errLower, "review_upvotes") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "You have already marked this review as helpful",
		}
	}
	if strings.Contains(errLower, "cart_items") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This item is already in your cart",
		}
	}
	if strings.Contains(errLower, "carts") && strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A cart already exists for this account",
		}
	}
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record is referenced by other data and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "seller_id") ||
		strings.Contains(errLower, "buyer_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The referenced user does not exist",
		}
	}
	if strings.Contains(errLower, "item_id") || strings.Contains(errLower, "fk_items") {
		return ErrorInfo{
			Code:    ItemNotFound,
			Message: "The referenced item does not exist",
		}
	}
	if strings.Contains(errLower, "order_id") || strings.Contains(errLower, "fk_orders") {
		return ErrorInfo{
			Code:    OrderNotFound,
			Message: "The referenced order does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "The referenced record does not exist",
	}
}

func parseNotNullError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "title") {
		return ErrorInfo{Code: ValidationRequired, Message: "Title is required"}
	}
	if strings.Contains(errLower, "price") {
		return ErrorInfo{Code: ValidationRequired, Message: "Price is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func parseCheckConstraintError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "rating") {
		return ErrorInfo{
			Code:    ReviewInvalidRating,
			Message: "Rating must be between 1 and 5",
		}
	}
	if strings.Contains(errLower, "stock") || strings.Contains(errLower, "quantity") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Quantity must not be negative",
		}
	}
	if strings.Contains(errLower, "price") || strings.Contains(errLower, "discount") {
		return ErrorInfo{
			Code:    ItemInvalidPricing,
			Message: "Price values are out of range",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Input values are invalid",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "item") {
		return "Item not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "profile") {
		return "Profile not found"
	}
	if strings.Contains(contextLower, "cart") {
		return "Cart entry not found"
	}
	if strings.Contains(contextLower, "order") {
		return "Order not found"
	}
	if strings.Contains(contextLower, "review") {
		return "Review not found"
	}
	if strings.Contains(contextLower, "promotion") || strings.Contains(contextLower, "promo") {
		return "Promotion not found"
	}

	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Failed to create the record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Failed to update the record. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete the record. Please try again later"
	}
	if strings.Contains(contextLower, "checkout") {
		return "Checkout failed. Please try again later"
	}

	return "An internal error occurred. Please try again later"
}
