package pos

import "fmt"

type RejectionCode string

const (
	CodeInvalidRequest    RejectionCode = "INVALID_REQUEST"
	CodeProductNotFound   RejectionCode = "PRODUCT_NOT_FOUND"
	CodeProductInactive   RejectionCode = "PRODUCT_INACTIVE"
	CodeInsufficientStock RejectionCode = "INSUFFICIENT_STOCK"
	CodeConflict          RejectionCode = "CONFLICT"
)

// Rejection is a business-rule refusal of a sale request. It is an expected
// outcome the client can act on, as opposed to an infrastructure failure,
// which surfaces as a plain error.
type Rejection struct {
	Code      RejectionCode `json:"code"`
	Message   string        `json:"message"`
	ProductID string        `json:"product_id,omitempty"`
	Available int           `json:"available,omitempty"`
	Requested int           `json:"requested,omitempty"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Transient reports whether the client may usefully resubmit the same
// request. Only lost races on stock qualify; plain validation rejections
// need a corrected request instead.
func (r *Rejection) Transient() bool {
	return r.Code == CodeConflict
}

func rejectf(code RejectionCode, format string, args ...interface{}) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}
