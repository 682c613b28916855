package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	dErrors "leadcrm/pkg/domain-errors"
)

var decimalPattern = regexp.MustCompile(`^\d{1,13}(\.\d{1,2})?$`)

// Decimal is a non-negative amount with at most two fractional digits, kept
// in its decimal text form so money never passes through float64.
// The empty Decimal means "not provided".
type Decimal string

// ParseDecimal validates s. Thousands separators are stripped; blank yields "".
func ParseDecimal(s string) (Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return "", nil
	}
	if !decimalPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("invalid amount %q: expected a non-negative number with at most 2 decimal places", s))
	}
	return Decimal(s), nil
}

func (d Decimal) IsZero() bool { return d == "" }

func (d Decimal) String() string { return string(d) }

func (d Decimal) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*d = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "amount must be a string or number")
		}
		raw = unquoted
	}
	parsed, err := ParseDecimal(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Decimal) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (d *Decimal) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case []byte:
		*d = Decimal(trimScale(string(v)))
	case string:
		*d = Decimal(trimScale(v))
	case float64:
		*d = Decimal(trimScale(strconv.FormatFloat(v, 'f', 2, 64)))
	case int64:
		*d = Decimal(strconv.FormatInt(v, 10))
	default:
		return fmt.Errorf("cannot scan %T into Decimal", src)
	}
	return nil
}

// trimScale drops a ".00" scale that NUMERIC(p,2) adds to whole amounts.
func trimScale(s string) string {
	return strings.TrimSuffix(s, ".00")
}
