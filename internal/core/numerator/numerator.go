// Package numerator provides the domain contract for document auto-numbering.
// The implementation lives in the infrastructure layer.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Generator generates sequential document numbers.
type Generator interface {
	// NextNumber generates the next document number for the given config and
	// period. Numbering is monotonic; year-scoped sequences reset implicitly
	// each calendar year because the sequence key embeds the year.
	NextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}

// Config holds numbering configuration for one document family.
type Config struct {
	// Prefix added to all numbers (e.g. "STK", "PROD", "PAY")
	Prefix string

	// IncludeYear adds the calendar year to the number
	IncludeYear bool

	// PadWidth is the zero-padded counter width
	PadWidth int

	// ResetPeriod: "year" or "never"
	ResetPeriod string

	// Separator between number segments. Year-scoped documents use "-"
	// (STK-2024-0001); the payment and customer sequences use none (PAY001).
	Separator string
}

// YearlyConfig returns the standard year-scoped config (PREFIX-YYYY-NNNN).
func YearlyConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    4,
		ResetPeriod: "year",
		Separator:   "-",
	}
}

// GlobalConfig returns a global monotonic config with no year (PREFIXNNN).
func GlobalConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: false,
		PadWidth:    3,
		ResetPeriod: "never",
		Separator:   "",
	}
}

// Key builds the sequence key for the config and period.
// Year-scoped sequences embed the year (STK_last_no_2024), matching the
// setting keys the previous system wrote, so existing counters carry over.
func (c Config) Key(period time.Time) string {
	if c.ResetPeriod == "year" {
		return fmt.Sprintf("%s_last_no_%s", c.Prefix, period.Format("2006"))
	}
	return fmt.Sprintf("%s_last_no", c.Prefix)
}

// Format renders the final number string for a counter value.
func (c Config) Format(period time.Time, num int64) string {
	padWidth := c.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	if c.IncludeYear {
		return fmt.Sprintf("%s%s%s%s%0*d", c.Prefix, c.Separator, period.Format("2006"), c.Separator, padWidth, num)
	}
	return fmt.Sprintf("%s%s%0*d", c.Prefix, c.Separator, padWidth, num)
}
