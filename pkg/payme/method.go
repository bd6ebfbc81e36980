package payme

// Method is one of the fixed protocol methods.
type Method int

const (
	MethodUnknown Method = iota
	MethodCheckPerformTransaction
	MethodCreateTransaction
	MethodPerformTransaction
	MethodCancelTransaction
	MethodCheckTransaction
	MethodGetStatement
)

var methodNames = map[string]Method{
	"CheckPerformTransaction": MethodCheckPerformTransaction,
	"CreateTransaction":       MethodCreateTransaction,
	"PerformTransaction":      MethodPerformTransaction,
	"CancelTransaction":       MethodCancelTransaction,
	"CheckTransaction":        MethodCheckTransaction,
	"GetStatement":            MethodGetStatement,
}

// ParseMethod resolves a wire method name. Matching is exact and
// case-sensitive; anything else yields MethodUnknown.
func ParseMethod(name string) Method {
	if m, ok := methodNames[name]; ok {
		return m
	}
	return MethodUnknown
}

func (m Method) String() string {
	switch m {
	case MethodCheckPerformTransaction:
		return "CheckPerformTransaction"
	case MethodCreateTransaction:
		return "CreateTransaction"
	case MethodPerformTransaction:
		return "PerformTransaction"
	case MethodCancelTransaction:
		return "CancelTransaction"
	case MethodCheckTransaction:
		return "CheckTransaction"
	case MethodGetStatement:
		return "GetStatement"
	default:
		return "Unknown"
	}
}
