package handler

// Method is the HTTP method of a request, reduced to the variants the
// handler distinguishes.
type Method int

const (
	MethodUnsupported Method = iota
	MethodGet
	MethodPost
)

// AllowedMethods is the value of the Allow header sent with 405 responses.
const AllowedMethods = "GET, POST"

// ParseMethod maps an HTTP method name to a [Method]. Method names are case
// sensitive, so anything other than exactly GET or POST is [MethodUnsupported].
func ParseMethod(s string) Method {
	switch s {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	default:
		return MethodUnsupported
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	case MethodUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNSUPPORTED"
	}
}
