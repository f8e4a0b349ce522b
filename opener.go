package serialkw

import "strings"

// openerFunc builds a transport for a locator using a parameter set.
type openerFunc func(locator string, settings *Settings) (Transport, error)

// urlOpeners maps URL schemes to transport constructors. Locators are tried
// against this table first; anything without a registered scheme falls
// through to the plain device opener.
var urlOpeners = map[string]openerFunc{
	"loop": openLoopback,
}

// newTransport resolves a locator through the ordered construction
// strategies: URL-scheme openers first, device name as the fallback.
func newTransport(locator string, settings *Settings) (Transport, error) {
	if scheme, ok := locatorScheme(locator); ok {
		if open, found := urlOpeners[scheme]; found {
			return open(locator, settings)
		}
	}
	return openDevice(locator, settings)
}

func locatorScheme(locator string) (string, bool) {
	idx := strings.Index(locator, "://")
	if idx <= 0 {
		return "", false
	}
	return strings.ToLower(locator[:idx]), true
}
