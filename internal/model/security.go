package model

// SecurityType identifies the asset class of a Symbol.
type SecurityType int

const (
	SecurityUnknown SecurityType = iota
	SecurityEquity
	SecurityIndex
	SecurityOption
	SecurityIndexOption
)

// String returns the lowercase name used in logs and archive keys.
func (s SecurityType) String() string {
	switch s {
	case SecurityEquity:
		return "equity"
	case SecurityIndex:
		return "index"
	case SecurityOption:
		return "option"
	case SecurityIndexOption:
		return "indexoption"
	default:
		return "unknown"
	}
}

// IsOption reports whether the type is an option class.
func (s SecurityType) IsOption() bool {
	return s == SecurityOption || s == SecurityIndexOption
}

// IsUnderlying reports whether the type can underlie an option chain.
func (s SecurityType) IsUnderlying() bool {
	return s == SecurityEquity || s == SecurityIndex
}

// Supported reports whether the adapter handles this security type at all.
func (s SecurityType) Supported() bool {
	return s.IsOption() || s.IsUnderlying()
}

// OptionRight is the side of an option contract.
type OptionRight int

const (
	RightCall OptionRight = iota
	RightPut
)

// Letter returns the single-character wire encoding ("C" or "P").
func (r OptionRight) Letter() string {
	if r == RightPut {
		return "P"
	}
	return "C"
}

func (r OptionRight) String() string {
	if r == RightPut {
		return "put"
	}
	return "call"
}

// OptionStyle is the exercise style of a contract.
type OptionStyle int

const (
	StyleAmerican OptionStyle = iota
	StyleEuropean
)

func (s OptionStyle) String() string {
	if s == StyleEuropean {
		return "european"
	}
	return "american"
}

// StyleFromVendorCode maps the vendor's integer style enum to OptionStyle.
//
// Only 0 (American) and 1 (European) are documented, but index options have
// been observed returning 2. Until the vendor clarifies, any non-zero code
// is treated as European; callers that need the raw value should keep the
// code from the reference record.
func StyleFromVendorCode(code int) OptionStyle {
	if code == 0 {
		return StyleAmerican
	}
	return StyleEuropean
}

// Resolution is the bar period of a data request.
type Resolution int

const (
	ResolutionDaily Resolution = iota
	ResolutionHour
	ResolutionMinute
)

func (r Resolution) String() string {
	switch r {
	case ResolutionHour:
		return "hour"
	case ResolutionMinute:
		return "minute"
	default:
		return "daily"
	}
}

// TickType is the kind of data point a history request asks for.
type TickType int

const (
	TickTrade TickType = iota
	TickOpenInterest
	TickQuote
)

func (t TickType) String() string {
	switch t {
	case TickOpenInterest:
		return "openinterest"
	case TickQuote:
		return "quote"
	default:
		return "trade"
	}
}
