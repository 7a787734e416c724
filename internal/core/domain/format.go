package domain

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Порог "억": 10000 만원 = 1억.
const eokUnit = 10000

var koreanPrinter = message.NewPrinter(language.Korean)

// FormatPrice - полный формат цены для карточки и статистики.
// Вход в 만원: 152000 -> "15억 2,000만원", 50000 -> "5억원", 7000 -> "7,000만원".
func FormatPrice(amount int64) string {
	if amount <= 0 {
		return "0원"
	}

	eok := amount / eokUnit
	man := amount % eokUnit

	switch {
	case eok > 0 && man > 0:
		return koreanPrinter.Sprintf("%d억 %d만원", eok, man)
	case eok > 0:
		return fmt.Sprintf("%d억원", eok)
	default:
		return koreanPrinter.Sprintf("%d만원", man)
	}
}

// FormatPriceShort - короткий формат для маркера на карте.
// 52000 -> "5.2억", 50000 -> "5억", 7000 -> "7천만", 800 -> "800만".
func FormatPriceShort(amount int64) string {
	if amount <= 0 {
		return "0"
	}

	eok := amount / eokUnit
	cheon := (amount % eokUnit) / 1000 // тысячи 만원

	switch {
	case eok > 0 && cheon > 0:
		return fmt.Sprintf("%d.%d억", eok, cheon)
	case eok > 0:
		return fmt.Sprintf("%d억", eok)
	case cheon > 0:
		return fmt.Sprintf("%d천만", cheon)
	default:
		return fmt.Sprintf("%d만", amount)
	}
}

// AreaToPyung переводит м² в пхён (평): 105.8 -> "32평".
func AreaToPyung(area float64) string {
	if area <= 0 || math.IsNaN(area) {
		return "0평"
	}
	return fmt.Sprintf("%d평", int(math.Round(area/3.3058)))
}

// FormatDealDate: "20240115" -> "2024.01.15". Невалидную строку возвращает как есть.
func FormatDealDate(dateStr string) string {
	if len(dateStr) != 8 {
		return dateStr
	}
	return dateStr[0:4] + "." + dateStr[4:6] + "." + dateStr[6:8]
}
