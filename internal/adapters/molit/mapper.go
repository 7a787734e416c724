package molit

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"apt-trade-map/internal/core/domain"

	"github.com/google/uuid"
)

// название дона из строки jibun: хангыль, оканчивающийся на 동 или 리
var dongFromJibunRe = regexp.MustCompile(`^([가-힣]+동|[가-힣]+리)`)

// toDomainRecord нормализует один элемент ответа API в доменную запись.
// Изолирует ядро от деталей формата реестра.
func toDomainRecord(item tradeItem) domain.TransactionRecord {
	dongName := strings.TrimSpace(item.UmdNm)
	jibun := strings.TrimSpace(item.Jibun)
	if dongName == "" {
		// фолбэк: извлекаем дон из строки jibun
		if m := dongFromJibunRe.FindString(jibun); m != "" {
			dongName = m
		}
	}

	// адрес: дорожный приоритетен, иначе "дон + jibun"
	var address string
	roadName := strings.TrimSpace(item.RoadName)
	if roadName != "" {
		address = roadName + " " + strings.TrimSpace(item.RoadNameBonbun)
		bubun := strings.TrimSpace(item.RoadNameBubun)
		if bubun != "" && bubun != "0" {
			address += "-" + bubun
		}
	} else {
		address = strings.TrimSpace(dongName + " " + jibun)
	}

	dealDate := strings.TrimSpace(item.DealYear) +
		padTwo(item.DealMonth) + padTwo(item.DealDay)

	id := strings.TrimSpace(item.Sn)
	if id == "" {
		id = uuid.New().String()
	}

	dealType := strings.TrimSpace(item.DealingGbn)
	if dealType == "" {
		dealType = "직거래"
	}

	return domain.TransactionRecord{
		ID:           id,
		BuildingName: strings.TrimSpace(item.AptName),
		DongName:     dongName,
		Address:      address,
		RegionCode:   strings.TrimSpace(item.SggCd),
		Amount:       parseAmount(item.DealAmount),
		Area:         parseArea(item.ExcluUseAr),
		Floor:        parseIntOrZero(item.Floor),
		BuildYear:    parseIntOrZero(item.BuildYear),
		DealDate:     dealDate,
		DealType:     dealType,
		Canceled:     strings.TrimSpace(item.CdealType) == "O",
		CancelDate:   strings.TrimSpace(item.CdealDay),
	}
}

// parseAmount: "50,000" -> 50000 (만원). Сначала срезаются разделители
// тысяч. Нечисловое значение дает 0.
func parseAmount(s string) int64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseArea: нечисловая площадь - NaN, чтобы не участвовать в сравнениях
// как настоящий ноль.
func parseArea(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// padTwo: "1" -> "01"
func padTwo(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
