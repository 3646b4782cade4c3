package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/quantlayer/ivol-data/internal/model"
)

// DomesticExchange is the only exchange qualifier accepted on OCC21 input.
const DomesticExchange = "US"

const (
	occRootWidth   = 6
	occDateFormat  = "060102"
	occStrikeWidth = 8 // strike * 1000, zero padded
)

// formatOcc21 renders a symbol in the vendor's OCC21 scheme. Equities and
// indices are addressed by bare ticker; options get the full
// root#date+right+strike form.
func formatOcc21(sym *model.Symbol) (string, error) {
	if sym.IsEmpty() {
		return "", fmt.Errorf("%w: empty symbol", model.ErrInvalidArgument)
	}
	if !sym.SecurityType.Supported() {
		return "", fmt.Errorf("%w: security type %s not supported", model.ErrInvalidArgument, sym.SecurityType)
	}

	if !sym.SecurityType.IsOption() {
		return sym.Ticker, nil
	}
	if sym.IsCanonicalOption() {
		return "", fmt.Errorf("%w: canonical option %s has no OCC21 form; expand to contracts first",
			model.ErrInvalidArgument, sym.Ticker)
	}

	strikeMillis := int(math.Round(sym.Strike * 1000))
	return fmt.Sprintf("%-*s#%s%s%0*d",
		occRootWidth, sym.Ticker,
		sym.Expiry.Format(occDateFormat),
		sym.Right.Letter(),
		occStrikeWidth, strikeMillis,
	), nil
}

// parseOcc21 rebuilds a canonical symbol from an OCC21 string. The style
// argument applies to options; it comes from reference data when known.
func parseOcc21(occ21 string, secType model.SecurityType, market string, style model.OptionStyle) (*model.Symbol, error) {
	occ21 = strings.TrimRight(occ21, " ")
	if occ21 == "" {
		return nil, fmt.Errorf("%w: empty OCC21 symbol", model.ErrInvalidArgument)
	}
	if market != model.MarketDomestic {
		return nil, fmt.Errorf("%w: market %q not supported", model.ErrInvalidArgument, market)
	}

	parts := strings.Split(occ21, "#")

	if !secType.IsOption() {
		if !secType.IsUnderlying() {
			return nil, fmt.Errorf("%w: security type %s not supported", model.ErrInvalidArgument, secType)
		}
		if len(parts) != 1 {
			return nil, fmt.Errorf("%w: %q has an option suffix but security type is %s",
				model.ErrInvalidArgument, occ21, secType)
		}
		if secType == model.SecurityIndex {
			return model.NewIndex(occ21), nil
		}
		return model.NewEquity(occ21), nil
	}

	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: OCC21 option symbol %q must contain exactly one separator",
			model.ErrInvalidArgument, occ21)
	}

	root := strings.TrimSpace(parts[0])
	suffix := parts[1]
	if root == "" || suffix == "" {
		return nil, fmt.Errorf("%w: OCC21 option symbol %q has an empty field", model.ErrInvalidArgument, occ21)
	}

	// A trailing -EXCHANGE qualifier is only valid for the domestic
	// exchange; anything else is explicitly unsupported input rather
	// than silently accepted.
	if dash := strings.IndexByte(suffix, '-'); dash >= 0 {
		exchange := suffix[dash+1:]
		if exchange != DomesticExchange {
			return nil, fmt.Errorf("%w: exchange qualifier %q not supported (only %s)",
				model.ErrInvalidArgument, exchange, DomesticExchange)
		}
		suffix = suffix[:dash]
	}

	if len(suffix) != len(occDateFormat)+1+occStrikeWidth {
		return nil, fmt.Errorf("%w: OCC21 suffix %q malformed", model.ErrInvalidArgument, suffix)
	}

	expiry, err := time.Parse(occDateFormat, suffix[:len(occDateFormat)])
	if err != nil {
		return nil, fmt.Errorf("%w: OCC21 expiry in %q: %v", model.ErrInvalidArgument, suffix, err)
	}

	var right model.OptionRight
	switch suffix[len(occDateFormat)] {
	case 'C':
		right = model.RightCall
	case 'P':
		right = model.RightPut
	default:
		return nil, fmt.Errorf("%w: OCC21 right %q must be C or P",
			model.ErrInvalidArgument, string(suffix[len(occDateFormat)]))
	}

	strikeMillis, err := strconv.Atoi(suffix[len(occDateFormat)+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: OCC21 strike in %q: %v", model.ErrInvalidArgument, suffix, err)
	}

	var underlying *model.Symbol
	if secType == model.SecurityIndexOption {
		underlying = model.NewIndex(root)
	} else {
		underlying = model.NewEquity(root)
	}

	return model.NewOption(underlying, float64(strikeMillis)/1000, expiry.UTC(), right, style), nil
}
