package pdf

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.Spanish)

// FormatMoney formatea un importe con separador de miles y dos decimales al
// estilo es: 1234567.5 → "$1.234.567,50".
func FormatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	units := d.Truncate(0)
	cents := d.Sub(units).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s,%02d", sign, moneyPrinter.Sprintf("%d", units.IntPart()), cents)
}
