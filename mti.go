package iso8583

import "fmt"

// MessageClass is the second MTI digit.
type MessageClass uint8

const (
	ClassReserved MessageClass = iota
	ClassAuthorization
	ClassFinancial
	ClassFileActions
	ClassReversal
	ClassReconciliation
	ClassAdministrative
	ClassFeeCollection
	ClassNetworkManagement
	ClassReservedISO
)

var classNames = [...]string{
	"reserved", "authorization", "financial", "file actions", "reversal",
	"reconciliation", "administrative", "fee collection", "network management", "reserved ISO",
}

func (c MessageClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("MessageClass(%d)", uint8(c))
}

// MessageFunction is the third MTI digit.
type MessageFunction uint8

const (
	FunctionRequest MessageFunction = iota
	FunctionResponse
	FunctionAdvice
	FunctionAdviceResponse
	FunctionNotification
	FunctionNotificationAck
	FunctionInstruction
	FunctionInstructionAck
	FunctionReserved8
	FunctionReserved9
)

var functionNames = [...]string{
	"request", "response", "advice", "advice response", "notification",
	"notification ack", "instruction", "instruction ack", "reserved", "reserved",
}

func (f MessageFunction) String() string {
	if int(f) < len(functionNames) {
		return functionNames[f]
	}
	return fmt.Sprintf("MessageFunction(%d)", uint8(f))
}

// MessageOrigin is the fourth MTI digit.
type MessageOrigin uint8

const (
	OriginAcquirer MessageOrigin = iota
	OriginAcquirerRepeat
	OriginIssuer
	OriginIssuerRepeat
	OriginOther
	OriginOtherRepeat
	OriginReserved6
	OriginReserved7
	OriginReserved8
	OriginReserved9
)

var originNames = [...]string{
	"acquirer", "acquirer repeat", "issuer", "issuer repeat", "other",
	"other repeat", "reserved", "reserved", "reserved", "reserved",
}

func (o MessageOrigin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return fmt.Sprintf("MessageOrigin(%d)", uint8(o))
}

// MTI is a decoded Message Type Indicator. The zero value is "0000".
type MTI struct {
	Version  uint8
	Class    MessageClass
	Function MessageFunction
	Origin   MessageOrigin
}

// Common message types.
var (
	MTIAuthorizationRequest        = MTI{Class: ClassAuthorization, Function: FunctionRequest}
	MTIAuthorizationResponse       = MTI{Class: ClassAuthorization, Function: FunctionResponse}
	MTIAuthorizationAdvice         = MTI{Class: ClassAuthorization, Function: FunctionAdvice}
	MTIAuthorizationAdviceResponse = MTI{Class: ClassAuthorization, Function: FunctionAdviceResponse}
	MTIFinancialRequest            = MTI{Class: ClassFinancial, Function: FunctionRequest}
	MTIFinancialResponse           = MTI{Class: ClassFinancial, Function: FunctionResponse}
	MTIFinancialAdvice             = MTI{Class: ClassFinancial, Function: FunctionAdvice}
	MTIFinancialAdviceResponse     = MTI{Class: ClassFinancial, Function: FunctionAdviceResponse}
	MTIReversalRequest             = MTI{Class: ClassReversal, Function: FunctionRequest}
	MTIReversalResponse            = MTI{Class: ClassReversal, Function: FunctionResponse}
	MTIReversalAdvice              = MTI{Class: ClassReversal, Function: FunctionAdvice}
	MTIReversalAdviceResponse      = MTI{Class: ClassReversal, Function: FunctionAdviceResponse}
	MTINetworkManagementRequest    = MTI{Class: ClassNetworkManagement, Function: FunctionRequest}
	MTINetworkManagementResponse   = MTI{Class: ClassNetworkManagement, Function: FunctionResponse}
	MTINetworkManagementAdvice     = MTI{Class: ClassNetworkManagement, Function: FunctionAdvice}
)

// ParseMTI decodes a 4-digit MTI string.
func ParseMTI(s string) (MTI, error) {
	return parseMTIBytes([]byte(s))
}

func parseMTIBytes(raw []byte) (MTI, error) {
	if len(raw) != MTILength {
		return MTI{}, &MTIError{Raw: string(raw), Reason: fmt.Sprintf("must be %d digits, got %d", MTILength, len(raw))}
	}
	var d [MTILength]uint8
	for i, c := range raw {
		if !isDigit(c) {
			return MTI{}, &MTIError{Raw: string(raw), Reason: fmt.Sprintf("non-digit at position %d", i)}
		}
		d[i] = c - '0'
	}
	return MTI{
		Version:  d[0],
		Class:    MessageClass(d[1]),
		Function: MessageFunction(d[2]),
		Origin:   MessageOrigin(d[3]),
	}, nil
}

func (m MTI) String() string {
	return string(m.appendTo(make([]byte, 0, MTILength)))
}

func (m MTI) appendTo(dst []byte) []byte {
	return append(dst, '0'+m.Version, '0'+byte(m.Class), '0'+byte(m.Function), '0'+byte(m.Origin))
}

// valid reports whether every component is a single decimal digit.
func (m MTI) valid() bool {
	return m.Version <= 9 && m.Class <= 9 && m.Function <= 9 && m.Origin <= 9
}

func (m MTI) IsRequest() bool {
	return m.Function == FunctionRequest
}

func (m MTI) IsResponse() bool {
	return m.Function == FunctionResponse
}

// IsAdvice reports advices and advice responses.
func (m MTI) IsAdvice() bool {
	return m.Function == FunctionAdvice || m.Function == FunctionAdviceResponse
}

// IsNetworkManagement reports 08xx messages.
func (m MTI) IsNetworkManagement() bool {
	return m.Class == ClassNetworkManagement
}

// Response returns the MTI answering m: requests map to responses and
// advices to advice responses.
func (m MTI) Response() (MTI, error) {
	switch m.Function {
	case FunctionRequest:
		m.Function = FunctionResponse
	case FunctionAdvice:
		m.Function = FunctionAdviceResponse
	default:
		return MTI{}, &MTIError{Raw: m.String(), Reason: fmt.Sprintf("%s has no response", m.Function)}
	}
	return m, nil
}
