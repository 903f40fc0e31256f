// Package errors provides structured error handling for the forge service.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Creation request errors
	CodeTooManyCharacters     Code = "CREATION_TOO_MANY_CHARACTERS"
	CodeRequestAlreadyPending Code = "CREATION_REQUEST_ALREADY_PENDING"
	CodeUnknownRequest        Code = "CREATION_UNKNOWN_REQUEST"
	CodeAlreadyFulfilled      Code = "CREATION_REQUEST_ALREADY_FULFILLED"
	CodeNoPendingRequest      Code = "CREATION_NO_PENDING_REQUEST"
	CodeNotTimedOutYet        Code = "CREATION_REQUEST_NOT_TIMED_OUT"
	CodePaymentRequired       Code = "CREATION_PAYMENT_REQUIRED"

	// Progression errors
	CodeInsufficientPoints  Code = "PROGRESSION_INSUFFICIENT_POINTS"
	CodeAttributeAtCap      Code = "PROGRESSION_ATTRIBUTE_AT_CAP"
	CodeAttributeAtFloor    Code = "PROGRESSION_ATTRIBUTE_AT_FLOOR"
	CodeInsufficientCharges Code = "PROGRESSION_INSUFFICIENT_CHARGES"
	CodeUnknownAttribute    Code = "PROGRESSION_UNKNOWN_ATTRIBUTE"

	// Equipment errors
	CodeRequirementsNotMet Code = "EQUIPMENT_REQUIREMENTS_NOT_MET"
	CodeSkinNotOwned       Code = "EQUIPMENT_SKIN_NOT_OWNED"

	// Roster errors
	CodeCharacterNotFound  Code = "ROSTER_CHARACTER_NOT_FOUND"
	CodeNotCharacterOwner  Code = "ROSTER_NOT_CHARACTER_OWNER"
	CodeSlotAllowanceAtMax Code = "ROSTER_SLOT_ALLOWANCE_AT_MAX"
	CodeInvalidStance      Code = "ROSTER_INVALID_STANCE"
	CodeInvalidNameIndex   Code = "ROSTER_INVALID_NAME_INDEX"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeUnknownAttribute,
		CodeInvalidStance,
		CodeInvalidNameIndex:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeTooManyCharacters,
		CodeRequestAlreadyPending,
		CodeAlreadyFulfilled,
		CodeNotTimedOutYet,
		CodePaymentRequired,
		CodeInsufficientPoints,
		CodeAttributeAtCap,
		CodeAttributeAtFloor,
		CodeInsufficientCharges,
		CodeRequirementsNotMet,
		CodeSkinNotOwned,
		CodeSlotAllowanceAtMax:
		return codes.FailedPrecondition

	// PermissionDenied - caller may not act on the record
	case CodeNotCharacterOwner:
		return codes.PermissionDenied

	// NotFound - missing records
	case CodeUnknownRequest,
		CodeNoPendingRequest,
		CodeCharacterNotFound,
		CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
