package order

import (
	"github.com/georgemunganga/restro-backend/internal/modules/settings"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceLine is the pricing view of a line item.
type PriceLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Breakdown holds the computed money fields of an order.
type Breakdown struct {
	Subtotal       decimal.Decimal
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	DeliveryCharge decimal.Decimal
	GrandTotal     decimal.Decimal
}

// Price computes the totals for lines under the given settings snapshot.
// Each tax is rounded to two places on its own; the grand total is the exact sum.
func Price(lines []PriceLine, serviceType ServiceType, s settings.Settings) Breakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	cgst := round2(subtotal.Mul(s.CGSTPercent).Div(hundred))
	sgst := round2(subtotal.Mul(s.SGSTPercent).Div(hundred))

	delivery := decimal.Zero
	if serviceType == ServiceDelivery {
		delivery = s.DeliveryCharge
	}

	return Breakdown{
		Subtotal:       subtotal,
		CGST:           cgst,
		SGST:           sgst,
		DeliveryCharge: delivery,
		GrandTotal:     subtotal.Add(cgst).Add(sgst).Add(delivery),
	}
}

// round2 rounds half away from zero to currency minor units.
func round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
