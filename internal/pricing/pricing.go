package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jazlogic/Share-Musician-sub000/internal/apperr"
)

// BaseRate базовая ставка за услугу, в у.е. за час.
var BaseRate = decimal.NewFromInt(50)

const dateLayout = "2006-01-02"

var timeLayouts = []string{"15:04:05", "15:04"}

// Estimate считает стоимость заявки:
//
//	baseRate × durationHours × instrumentFactor × eventTypeFactor
//
// Длительность берется по часам начала и конца на дату события. Если
// произведение получилось нулевым или отрицательным (например, конец
// раньше начала), возвращается базовая ставка. Результат округляется
// до двух знаков.
func Estimate(eventDate, startTime, endTime string, instrumentFactor, eventTypeFactor decimal.Decimal) (decimal.Decimal, error) {
	start, err := parseOn(eventDate, startTime)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid start time")
	}
	end, err := parseOn(eventDate, endTime)
	if err != nil {
		return decimal.Zero, apperr.Validation("invalid end time")
	}

	hours := decimal.NewFromFloat(end.Sub(start).Hours())
	price := BaseRate.Mul(hours).Mul(instrumentFactor).Mul(eventTypeFactor)
	if price.LessThanOrEqual(decimal.Zero) {
		return BaseRate.Round(2), nil
	}
	return price.Round(2), nil
}

func parseOn(date, clock string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(dateLayout+" "+layout, date+" "+clock)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
