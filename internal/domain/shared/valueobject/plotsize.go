package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AreaUnit is a unit of land measurement with a conversion rate to the
// base unit (marla, the customary unit on society layout plans).
type AreaUnit struct {
	code           string
	name           string
	conversionRate decimal.Decimal
}

// Common area unit codes
const (
	AreaUnitMarla = "MARLA"
	AreaUnitKanal = "KANAL"
	AreaUnitSqYd  = "SQYD"
	AreaUnitAcre  = "ACRE"
)

// NewAreaUnit creates a new AreaUnit. The conversion rate states how many
// marla equal 1 of this unit and must be positive.
func NewAreaUnit(code, name string, conversionRate decimal.Decimal) (AreaUnit, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	name = strings.TrimSpace(name)

	if code == "" {
		return AreaUnit{}, errors.New("area unit code cannot be empty")
	}
	if len(code) > 20 {
		return AreaUnit{}, errors.New("area unit code too long")
	}
	if name == "" {
		return AreaUnit{}, errors.New("area unit name cannot be empty")
	}
	if !conversionRate.IsPositive() {
		return AreaUnit{}, errors.New("conversion rate must be positive")
	}
	return AreaUnit{code: code, name: name, conversionRate: conversionRate}, nil
}

// Marla returns the base unit
func Marla() AreaUnit {
	return AreaUnit{code: AreaUnitMarla, name: "Marla", conversionRate: decimal.NewFromInt(1)}
}

// Kanal returns the kanal unit (20 marla)
func Kanal() AreaUnit {
	return AreaUnit{code: AreaUnitKanal, name: "Kanal", conversionRate: decimal.NewFromInt(20)}
}

// SquareYard returns the square yard unit (1 marla = 30.25 sq yd)
func SquareYard() AreaUnit {
	return AreaUnit{code: AreaUnitSqYd, name: "Square Yard", conversionRate: decimal.NewFromInt(1).Div(decimal.NewFromFloat(30.25))}
}

// Acre returns the acre unit (1 acre = 160 marla)
func Acre() AreaUnit {
	return AreaUnit{code: AreaUnitAcre, name: "Acre", conversionRate: decimal.NewFromInt(160)}
}

// AreaUnitFromCode resolves a known unit from its code
func AreaUnitFromCode(code string) (AreaUnit, error) {
	switch strings.TrimSpace(strings.ToUpper(code)) {
	case AreaUnitMarla:
		return Marla(), nil
	case AreaUnitKanal:
		return Kanal(), nil
	case AreaUnitSqYd:
		return SquareYard(), nil
	case AreaUnitAcre:
		return Acre(), nil
	default:
		return AreaUnit{}, fmt.Errorf("unknown area unit code: %s", code)
	}
}

// Code returns the unit code
func (u AreaUnit) Code() string { return u.code }

// Name returns the display name
func (u AreaUnit) Name() string { return u.name }

// ConversionRate returns how many marla equal 1 of this unit
func (u AreaUnit) ConversionRate() decimal.Decimal { return u.conversionRate }

// PlotSize is a value object for the land area of a plot.
// It is immutable - all operations return new PlotSize instances.
type PlotSize struct {
	value decimal.Decimal
	unit  AreaUnit
}

// NewPlotSize creates a PlotSize with the given value and unit
func NewPlotSize(value decimal.Decimal, unit AreaUnit) (PlotSize, error) {
	if !value.IsPositive() {
		return PlotSize{}, errors.New("plot size must be positive")
	}
	if unit.code == "" {
		return PlotSize{}, errors.New("plot size requires a unit")
	}
	return PlotSize{value: value, unit: unit}, nil
}

// NewPlotSizeFromFloat creates a PlotSize from a float value
func NewPlotSizeFromFloat(value float64, unit AreaUnit) (PlotSize, error) {
	return NewPlotSize(decimal.NewFromFloat(value), unit)
}

// ParsePlotSize parses a display string such as "5 Marla" or "1 KANAL"
func ParsePlotSize(s string) (PlotSize, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return PlotSize{}, fmt.Errorf("invalid plot size: %q", s)
	}
	value, err := decimal.NewFromString(fields[0])
	if err != nil {
		return PlotSize{}, fmt.Errorf("invalid plot size value: %w", err)
	}
	unitCode := strings.Join(fields[1:], " ")
	switch strings.ToUpper(unitCode) {
	case "MARLA":
		return NewPlotSize(value, Marla())
	case "KANAL":
		return NewPlotSize(value, Kanal())
	case "SQYD", "SQUARE YARD", "SQUARE YARDS":
		return NewPlotSize(value, SquareYard())
	case "ACRE", "ACRES":
		return NewPlotSize(value, Acre())
	default:
		return PlotSize{}, fmt.Errorf("unknown area unit: %s", unitCode)
	}
}

// ValueDecimal returns the numeric size
func (p PlotSize) ValueDecimal() decimal.Decimal { return p.value }

// Unit returns the area unit
func (p PlotSize) Unit() AreaUnit { return p.unit }

// InMarla converts the size to the base unit
func (p PlotSize) InMarla() decimal.Decimal {
	return p.value.Mul(p.unit.conversionRate)
}

// In converts the size to another unit
func (p PlotSize) In(unit AreaUnit) (PlotSize, error) {
	if unit.code == "" {
		return PlotSize{}, errors.New("target unit is required")
	}
	converted := p.InMarla().Div(unit.conversionRate)
	return PlotSize{value: converted, unit: unit}, nil
}

// IsZero reports whether the size is unset
func (p PlotSize) IsZero() bool {
	return p.value.IsZero() && p.unit.code == ""
}

// Equals compares two sizes by their base-unit area
func (p PlotSize) Equals(other PlotSize) bool {
	return p.InMarla().Equal(other.InMarla())
}

// String renders the size the way layout plans print it, e.g. "5 Marla"
func (p PlotSize) String() string {
	return fmt.Sprintf("%s %s", p.value.String(), p.unit.name)
}

// MarshalJSON implements json.Marshaler
func (p PlotSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}{
		Value: p.value.String(),
		Unit:  p.unit.code,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PlotSize) UnmarshalJSON(data []byte) error {
	var v struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	value, err := decimal.NewFromString(v.Value)
	if err != nil {
		return fmt.Errorf("invalid plot size value: %w", err)
	}
	unit, err := AreaUnitFromCode(v.Unit)
	if err != nil {
		return err
	}
	p.value = value
	p.unit = unit
	return nil
}

// Value implements driver.Valuer, storing the display form
func (p PlotSize) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.String(), nil
}

// Scan implements sql.Scanner
func (p *PlotSize) Scan(value any) error {
	if value == nil {
		*p = PlotSize{}
		return nil
	}
	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PlotSize", value)
	}
	parsed, err := ParsePlotSize(strVal)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
