package models

// ErrorKind classifies domain failures so the HTTP layer can map them to a status code
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindForbidden
	KindInvalidInput
	KindFinalized
	KindUploadRejected
	KindConflict
)

// DomainError is an expected, user-readable failure
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrOrderNotFound   = &DomainError{Kind: KindNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"}
	ErrShopNotFound    = &DomainError{Kind: KindNotFound, Code: "SHOP_NOT_FOUND", Message: "Shop not found"}
	ErrVehicleNotFound = &DomainError{Kind: KindNotFound, Code: "VEHICLE_NOT_FOUND", Message: "Vehicle not found"}
	ErrUserNotFound    = &DomainError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User profile not found"}

	ErrForbidden = &DomainError{Kind: KindForbidden, Code: "FORBIDDEN", Message: "You do not have permission to access this order"}

	ErrOrderFinalized = &DomainError{Kind: KindFinalized, Code: "ORDER_FINALIZED", Message: "The order is finalized and can no longer be modified"}

	ErrInvalidStatus     = &DomainError{Kind: KindInvalidInput, Code: "INVALID_STATUS", Message: "Invalid order status"}
	ErrInvalidBucket     = &DomainError{Kind: KindInvalidInput, Code: "INVALID_BUCKET", Message: "Invalid order bucket"}
	ErrInvalidRating     = &DomainError{Kind: KindInvalidInput, Code: "INVALID_RATING", Message: "Rating must be a whole number between 1 and 5"}
	ErrInvalidEstimate   = &DomainError{Kind: KindInvalidInput, Code: "INVALID_ESTIMATE", Message: "Estimate amount cannot be negative"}
	ErrInvalidEtaHours   = &DomainError{Kind: KindInvalidInput, Code: "INVALID_ETA", Message: "ETA hours cannot be negative"}
	ErrEmptyMessage      = &DomainError{Kind: KindInvalidInput, Code: "EMPTY_MESSAGE", Message: "Message cannot be empty"}
	ErrShopRequired      = &DomainError{Kind: KindInvalidInput, Code: "SHOP_REQUIRED", Message: "shopId is required to create an order"}
	ErrNoShopAssigned    = &DomainError{Kind: KindInvalidInput, Code: "NO_SHOP_ASSIGNED", Message: "No shop is associated with this account"}
	ErrOrderNotFinalized = &DomainError{Kind: KindInvalidInput, Code: "ORDER_NOT_FINALIZED", Message: "Only finalized orders can be rated"}

	ErrAlreadyRated = &DomainError{Kind: KindConflict, Code: "ALREADY_RATED", Message: "This order has already been rated"}
	ErrPlateExists  = &DomainError{Kind: KindConflict, Code: "PLATE_EXISTS", Message: "A vehicle with this plate already exists for this user"}
	ErrEmailExists  = &DomainError{Kind: KindConflict, Code: "EMAIL_EXISTS", Message: "A user with this email already exists"}

	ErrInvalidCredentials = &DomainError{Kind: KindInvalidInput, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	ErrInvalidSeedKey     = &DomainError{Kind: KindForbidden, Code: "INVALID_SEED_KEY", Message: "Invalid seed key"}
)

// InvalidInput builds a validation failure with a specific code
func InvalidInput(code, message string) *DomainError {
	return &DomainError{Kind: KindInvalidInput, Code: code, Message: message}
}
