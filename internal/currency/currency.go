package currency

import "errors"

// Code identifies one of the supported demo currencies. The set is closed:
// wallets are provisioned for every supported code and transfers never
// convert between codes.
type Code string

const (
	BTC Code = "BTC"
	ETH Code = "ETH"
)

// ErrUnsupported is returned when a currency string is not in the supported set.
var ErrUnsupported = errors.New("unsupported currency")

var supported = []Code{BTC, ETH}

// Parse validates a raw currency string against the supported set.
func Parse(s string) (Code, error) {
	for _, c := range supported {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrUnsupported
}

// Supported returns the closed set of currency codes, one wallet per code
// is created at provisioning time.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

func (c Code) String() string {
	return string(c)
}
