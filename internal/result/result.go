// Package result is the structured outcome every order operation returns.
// Callers branch on Kind or Code; they never see raw storage errors.
package result

// Kind classifies an outcome.
type Kind string

const (
	Success              Kind = "success"
	NotFound             Kind = "not_found"
	InvalidStatus        Kind = "invalid_status"
	IllegalTransition    Kind = "illegal_transition"
	InvalidPaymentMethod Kind = "invalid_payment_method"
	InvalidPartnerType   Kind = "invalid_partner_type"
	WalletMissing        Kind = "wallet_missing"
	PartnerNotFound      Kind = "partner_not_found"
	PartialFailure       Kind = "partial_failure"
	InternalError        Kind = "internal_error"
)

// Stable codes shared with clients.
const (
	CodeOK                = "NO_ERROR"
	CodeNotFound          = "ERROR_404"
	CodeInvalidStatus     = "ERROR_253"
	CodeBadRequest        = "ERROR_400"
	CodeInvalidPayment    = "ERROR_434"
	CodeWalletMissing     = "ERROR_108"
	CodePartialFailure    = "ERROR_422"
	CodeInternal          = "ERROR_501"
	KeyTransitionRejected = "errors.status_transition_not_allowed"
)

var codes = map[Kind]string{
	Success:              CodeOK,
	NotFound:             CodeNotFound,
	InvalidStatus:        CodeInvalidStatus,
	IllegalTransition:    CodeBadRequest,
	InvalidPaymentMethod: CodeInvalidPayment,
	InvalidPartnerType:   CodeBadRequest,
	WalletMissing:        CodeWalletMissing,
	PartnerNotFound:      CodeNotFound,
	PartialFailure:       CodePartialFailure,
	InternalError:        CodeInternal,
}

// Code returns the stable code of k. Unknown kinds map to the internal error code.
func (k Kind) Code() string {
	if c, ok := codes[k]; ok {
		return c
	}
	return CodeInternal
}

// Message is a localizable message: a catalog key plus its named parameters.
type Message struct {
	Key    string            `json:"key"`
	Params map[string]string `json:"params,omitempty"`
}

// MessageFor returns the default message of k.
func MessageFor(k Kind) Message {
	if k == Success {
		return Message{Key: "web.record_successfully_updated"}
	}
	return Message{Key: "errors." + k.Code()}
}

// OrderError reports why one order of a batch failed.
type OrderError struct {
	OrderID int64   `json:"order_id"`
	Kind    Kind    `json:"kind"`
	Code    string  `json:"code"`
	Message Message `json:"message"`
}

// NewOrderError builds the per-order error of kind k.
func NewOrderError(orderID int64, k Kind) OrderError {
	return OrderError{OrderID: orderID, Kind: k, Code: k.Code(), Message: MessageFor(k)}
}

// Result carries either success data or a code and message, never both.
type Result[T any] struct {
	OK      bool         `json:"ok"`
	Kind    Kind         `json:"kind"`
	Code    string       `json:"code"`
	Message Message      `json:"message"`
	Data    T            `json:"data,omitempty"`
	Errors  []OrderError `json:"errors,omitempty"`
}

// OK wraps successful data.
func OK[T any](data T) Result[T] {
	return Result[T]{OK: true, Kind: Success, Code: CodeOK, Message: MessageFor(Success), Data: data}
}

// Fail builds a failed result of kind k with its default message.
func Fail[T any](k Kind) Result[T] {
	return Result[T]{Kind: k, Code: k.Code(), Message: MessageFor(k)}
}

// FailWith builds a failed result with a specific message.
func FailWith[T any](k Kind, msg Message) Result[T] {
	return Result[T]{Kind: k, Code: k.Code(), Message: msg}
}

// Transition reports a status change the lifecycle forbids.
func Transition[T any](from, to string) Result[T] {
	return FailWith[T](IllegalTransition, Message{
		Key:    KeyTransitionRejected,
		Params: map[string]string{"from": from, "to": to},
	})
}

// Partial aggregates per-order failures of a batch.
func Partial[T any](errs []OrderError) Result[T] {
	r := Fail[T](PartialFailure)
	r.Errors = errs
	return r
}
