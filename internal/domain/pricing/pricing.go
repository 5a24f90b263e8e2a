// Package pricing implements the campaign cost and payout calculator.
//
// Rates are a business parameter, not code: a RateCard is assembled from
// configuration (per-platform base rate per 1000 views, per-deadline urgency
// multiplier, service fee rate) and injected wherever costs are computed.
// The same formula serves both sides of the marketplace: buyers see the
// total including the service fee, influencers see their payout without it.
package pricing

import (
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// Platform is a social network a campaign can target.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

// Platforms lists all supported platforms.
var Platforms = []Platform{PlatformYouTube, PlatformFacebook, PlatformTikTok, PlatformInstagram}

// ParsePlatform validates a platform string.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if s == string(p) {
			return p, nil
		}
	}
	return "", errors.ErrInvalidPlatform
}

// DeadlineOption is a symbolic campaign deadline.
type DeadlineOption string

const (
	Deadline3Days    DeadlineOption = "3d"
	Deadline1Week    DeadlineOption = "1w"
	Deadline2Weeks   DeadlineOption = "2w"
	Deadline1Month   DeadlineOption = "1m"
	Deadline2Months  DeadlineOption = "2m"
	Deadline3Months  DeadlineOption = "3m"
	Deadline6Months  DeadlineOption = "6m"
	DeadlineFlexible DeadlineOption = "flexible"
)

// DeadlineOptions lists all options, tightest first.
var DeadlineOptions = []DeadlineOption{
	Deadline3Days, Deadline1Week, Deadline2Weeks, Deadline1Month,
	Deadline2Months, Deadline3Months, Deadline6Months, DeadlineFlexible,
}

var deadlineDays = map[DeadlineOption]int{
	Deadline3Days:   3,
	Deadline1Week:   7,
	Deadline2Weeks:  14,
	Deadline1Month:  30,
	Deadline2Months: 60,
	Deadline3Months: 90,
	Deadline6Months: 180,
}

// ParseDeadlineOption validates a deadline option string.
func ParseDeadlineOption(s string) (DeadlineOption, error) {
	for _, d := range DeadlineOptions {
		if s == string(d) {
			return d, nil
		}
	}
	return "", errors.ErrInvalidDeadlineOption
}

// Resolve maps the option to a concrete date relative to now.
// The flexible option has no date and resolves to nil.
func (d DeadlineOption) Resolve(now time.Time) (*time.Time, error) {
	if d == DeadlineFlexible {
		return nil, nil
	}
	days, ok := deadlineDays[d]
	if !ok {
		return nil, errors.ErrInvalidDeadlineOption
	}
	t := now.AddDate(0, 0, days)
	return &t, nil
}

// Breakdown is the result of a cost calculation, all values rounded to
// two decimal places. Total = Base + Fee always holds.
type Breakdown struct {
	Base  decimal.Decimal
	Fee   decimal.Decimal
	Total decimal.Decimal
}

// Zero returns an all-zero breakdown.
func Zero() Breakdown {
	return Breakdown{Base: decimal.Zero, Fee: decimal.Zero, Total: decimal.Zero}
}

// Add returns the field-wise sum of two breakdowns.
func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		Base:  b.Base.Add(o.Base),
		Fee:   b.Fee.Add(o.Fee),
		Total: b.Total.Add(o.Total),
	}
}

// Sum aggregates breakdowns field-wise. Multi-platform campaign totals are
// always per-platform breakdowns summed, never a single combined-views
// calculation: rates differ per platform.
func Sum(bs ...Breakdown) Breakdown {
	out := Zero()
	for _, b := range bs {
		out = out.Add(b)
	}
	return out
}

// RateCard holds the rate table driving all cost calculations.
type RateCard struct {
	// BaseRates is the rate in LKR per 1000 views for a flexible deadline.
	BaseRates map[Platform]decimal.Decimal
	// Multipliers scale the base rate by deadline urgency; flexible is 1.
	Multipliers map[DeadlineOption]decimal.Decimal
	// ServiceFeeRate is the marketplace margin applied to the buyer side.
	ServiceFeeRate decimal.Decimal
}

// DefaultRateCard returns the stock rate table. Production deployments
// override these values through configuration.
func DefaultRateCard() *RateCard {
	return &RateCard{
		BaseRates: map[Platform]decimal.Decimal{
			PlatformYouTube:   decimal.NewFromInt(150),
			PlatformFacebook:  decimal.NewFromInt(100),
			PlatformTikTok:    decimal.NewFromInt(80),
			PlatformInstagram: decimal.NewFromInt(120),
		},
		Multipliers: map[DeadlineOption]decimal.Decimal{
			Deadline3Days:    decimal.RequireFromString("2.0"),
			Deadline1Week:    decimal.RequireFromString("1.8"),
			Deadline2Weeks:   decimal.RequireFromString("1.6"),
			Deadline1Month:   decimal.RequireFromString("1.4"),
			Deadline2Months:  decimal.RequireFromString("1.3"),
			Deadline3Months:  decimal.RequireFromString("1.2"),
			Deadline6Months:  decimal.RequireFromString("1.1"),
			DeadlineFlexible: decimal.NewFromInt(1),
		},
		ServiceFeeRate: decimal.RequireFromString("0.10"),
	}
}

// Rate returns the rate per 1000 views for a platform and deadline.
func (rc *RateCard) Rate(p Platform, d DeadlineOption) (decimal.Decimal, error) {
	base, ok := rc.BaseRates[p]
	if !ok {
		return decimal.Zero, errors.ErrInvalidPlatform
	}
	mult, ok := rc.Multipliers[d]
	if !ok {
		return decimal.Zero, errors.ErrInvalidDeadlineOption
	}
	return base.Mul(mult), nil
}

// Calculate computes the cost breakdown for a single platform target.
//
//	base  = round2(views/1000 * rate)
//	fee   = round2(base * ServiceFeeRate)   when includeFee
//	total = base + fee
//
// Zero views yields a zero breakdown; an unknown platform or deadline is a
// programmer error and fails loudly.
func (rc *RateCard) Calculate(p Platform, viewCount int64, d DeadlineOption, includeFee bool) (Breakdown, error) {
	rate, err := rc.Rate(p, d)
	if err != nil {
		return Breakdown{}, err
	}
	if viewCount < 0 {
		return Breakdown{}, errors.NewValidationError("views", "cannot be negative")
	}
	if viewCount == 0 {
		return Zero(), nil
	}

	thousands := decimal.NewFromInt(viewCount).Div(decimal.NewFromInt(1000))
	base := thousands.Mul(rate).Round(2)

	fee := decimal.Zero
	if includeFee {
		// Fee rounding happens here, per platform, before any summation.
		fee = base.Mul(rc.ServiceFeeRate).Round(2)
	}

	return Breakdown{Base: base, Fee: fee, Total: base.Add(fee)}, nil
}

// Target pairs a platform with a promised or requested view count and
// deadline, the unit of multi-platform aggregation.
type Target struct {
	Platform Platform
	Views    int64
	Deadline DeadlineOption
}

// CalculateTotal computes the aggregate breakdown for a set of targets by
// calculating each target independently and summing field-wise.
func (rc *RateCard) CalculateTotal(targets []Target, includeFee bool) (Breakdown, error) {
	out := Zero()
	for _, t := range targets {
		b, err := rc.Calculate(t.Platform, t.Views, t.Deadline, includeFee)
		if err != nil {
			return Breakdown{}, err
		}
		out = out.Add(b)
	}
	return out, nil
}
