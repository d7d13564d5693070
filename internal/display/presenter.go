// Package display renders calculator state as locale-formatted text.
package display

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-chi-calculator/internal/calculator"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrorText is shown in place of any non-finite value.
const ErrorText = "Error"

// MaxFractionDigits caps the fractional digits shown for an operand.
const MaxFractionDigits = 12

const (
	msgDivideByZero = "Cannot divide by zero"
	msgOutOfRange   = "Result out of range"
)

func init() {
	_ = message.SetString(language.English, msgDivideByZero, msgDivideByZero)
	_ = message.SetString(language.English, msgOutOfRange, msgOutOfRange)
	_ = message.SetString(language.Spanish, msgDivideByZero, "No se puede dividir entre 0")
	_ = message.SetString(language.Spanish, msgOutOfRange, "Resultado fuera de rango")
}

// View is what the page shows after an intent.
type View struct {
	Display    string   `json:"display"`
	Expression string   `json:"expression"`
	Message    string   `json:"message,omitempty"`
	History    []string `json:"history,omitempty"`
}

// minGroupingDigits lists languages that only group integer parts with
// at least five digits, so 1234 stays "1234" while 12345 is "12.345".
var minGroupingDigits = map[language.Base]int{
	language.MustParseBase("es"): 2,
	language.MustParseBase("pl"): 2,
}

// Presenter formats engine snapshots for a single display locale.
// It is safe for concurrent use.
type Presenter struct {
	tag      language.Tag
	minGroup int
}

// New returns a presenter for a BCP 47 locale such as "es-ES".
func New(locale string) (*Presenter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	p := &Presenter{tag: tag, minGroup: 1}
	if base, _ := tag.Base(); minGroupingDigits[base] > 0 {
		p.minGroup = minGroupingDigits[base]
	}
	return p, nil
}

// Locale returns the presenter's locale tag.
func (p *Presenter) Locale() string {
	return p.tag.String()
}

// FormatOperand renders operand text with locale grouping and at most
// MaxFractionDigits fractional digits.
func (p *Presenter) FormatOperand(text string) string {
	return p.format(message.NewPrinter(p.tag), text)
}

func (p *Presenter) format(pr *message.Printer, text string) string {
	v := calculator.ParseOperand(text)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorText
	}

	// Never show more fraction digits than the shortest round-trip decimal.
	digits := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(digits, ".")
	opts := []number.Option{number.MaxFractionDigits(min(len(frac), MaxFractionDigits))}
	if len(intPart) < 3+p.minGroup {
		opts = append(opts, number.NoSeparator())
	}
	return pr.Sprint(number.Decimal(v, opts...))
}

// FormatEntry renders a history entry, e.g. "7 + 3 = 10".
func (p *Presenter) FormatEntry(e calculator.Entry) string {
	return p.formatEntry(message.NewPrinter(p.tag), e)
}

func (p *Presenter) formatEntry(pr *message.Printer, e calculator.Entry) string {
	return fmt.Sprintf("%s %s %s = %s",
		p.format(pr, e.Left), Glyph(e.Operator), p.format(pr, e.Right), p.format(pr, e.Result))
}

// Render builds the view for a snapshot.
func (p *Presenter) Render(s calculator.Snapshot) View {
	pr := message.NewPrinter(p.tag)

	v := View{Display: p.format(pr, s.Current)}
	if s.HasPending() {
		v.Expression = fmt.Sprintf("%s %s", p.format(pr, s.Previous), Glyph(s.Operator))
	}

	switch {
	case errors.Is(s.Err, calculator.ErrDivisionByZero):
		v.Message = pr.Sprintf(msgDivideByZero)
	case s.Err != nil:
		v.Message = pr.Sprintf(msgOutOfRange)
	}

	if len(s.History) > 0 {
		v.History = make([]string, 0, len(s.History))
		for _, e := range s.History {
			v.History = append(v.History, p.formatEntry(pr, e))
		}
	}
	return v
}

// Glyph returns the display symbol for an operator.
func Glyph(op calculator.Operator) string {
	switch op {
	case calculator.Add:
		return "+"
	case calculator.Subtract:
		return "−"
	case calculator.Multiply:
		return "×"
	case calculator.Divide:
		return "÷"
	}
	return ""
}
