package bill

import "github.com/MrJamesThe3rd/condobill/internal/apperr"

var (
	ErrNotFound            = apperr.NotFound("BILL_NOT_FOUND", "bill not found")
	ErrCustomerRequired    = apperr.Validation("CUSTOMER_REQUIRED", "customer_id is required")
	ErrAttachmentMissing   = apperr.NotFound("ATTACHMENT_MISSING", "no uploaded file for this upload key")
	ErrNoValidData         = apperr.Validation("NO_VALID_DATA", "the file has no valid rows")
	ErrAlreadySent         = apperr.StateConflict("ALREADY_SENT", "bill has already been sent")
	ErrNotSent             = apperr.StateConflict("NOT_SENT", "bill is not in sent state")
	ErrDeleteAllForbidden  = apperr.StateConflict("DELETE_ALL_FORBIDDEN", "a bill must keep at least one unit charge")
	ErrInvalidTransition   = apperr.Validation("INVALID_STATUS_TRANSITION", "status transition is not allowed")
	ErrInvalidDeleteRows   = apperr.Validation("INVALID_DELETE_ROWS", "delete_rows refers to rows that do not exist")
	ErrIdentifierExhausted = apperr.StateConflict("IDENTIFIER_EXHAUSTED",
		"daily identifier range is exhausted for this tenant; try again tomorrow")
)
