// Package encode turns parties and article lines into gateway parameter
// records. Encoders are pure; record order within a group is part of the
// wire contract.
package encode

import (
	"strconv"

	"paybridge/internal/assembly/models"
)

// LineItem encodes one article line into its fixed five-record group:
// Description, Identifier, Quantity, GrossUnitPrice, VatPercentage. An
// absent VAT percentage is sent as an empty string, not an error.
func LineItem(groupIndex string, item models.LineItem) []models.ParameterRecord {
	vat := ""
	if item.HasVat {
		vat = formatAmount(item.VatPercent)
	}

	return []models.ParameterRecord{
		articleRecord("Description", item.Description, groupIndex),
		articleRecord("Identifier", item.Identifier, groupIndex),
		articleRecord("Quantity", formatAmount(item.Quantity), groupIndex),
		articleRecord("GrossUnitPrice", formatAmount(item.UnitPriceGross), groupIndex),
		articleRecord("VatPercentage", vat, groupIndex),
	}
}

func articleRecord(name, value, groupIndex string) models.ParameterRecord {
	return models.ParameterRecord{
		Value:      value,
		Name:       name,
		Group:      models.GroupArticle,
		GroupIndex: groupIndex,
	}
}

// formatAmount renders a numeric wire value without a forced decimal tail,
// so quantities stay "2" while prices keep their cents.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
