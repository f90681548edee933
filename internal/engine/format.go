package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amounts quoted in question text use grouped thousands and two
// decimals ("682,924.14"), matching the report workbooks.
var amountPrinter = message.NewPrinter(language.English)

func formatEUR(amount float64) string {
	return amountPrinter.Sprintf("€%.2f", amount)
}
