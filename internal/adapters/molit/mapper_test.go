package molit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainRecordFull(t *testing.T) {
	rec := toDomainRecord(tradeItem{
		DealAmount:     "152,000",
		BuildYear:      "2008",
		DealYear:       "2024",
		DealMonth:      "1",
		DealDay:        "5",
		RoadName:       "삼성로",
		RoadNameBonbun: "212",
		RoadNameBubun:  "3",
		UmdNm:          "삼성동",
		SggCd:          "11680",
		AptName:        "아이파크",
		ExcluUseAr:     "84.97",
		Jibun:          "87",
		Floor:          "15",
		DealingGbn:     "중개거래",
		Sn:             "12345",
	})

	assert.Equal(t, "12345", rec.ID)
	assert.Equal(t, "아이파크", rec.BuildingName)
	assert.Equal(t, "삼성동", rec.DongName)
	assert.Equal(t, "삼성로 212-3", rec.Address)
	assert.Equal(t, "11680", rec.RegionCode)
	assert.Equal(t, int64(152000), rec.Amount)
	assert.InDelta(t, 84.97, rec.Area, 1e-9)
	assert.Equal(t, 15, rec.Floor)
	assert.Equal(t, 2008, rec.BuildYear)
	assert.Equal(t, "20240105", rec.DealDate)
	assert.Equal(t, "중개거래", rec.DealType)
	assert.False(t, rec.Canceled)
}

func TestToDomainRecordRoadBubunZeroOmitted(t *testing.T) {
	rec := toDomainRecord(tradeItem{
		RoadName:       "테헤란로",
		RoadNameBonbun: "152",
		RoadNameBubun:  "0",
	})
	assert.Equal(t, "테헤란로 152", rec.Address)
}

func TestToDomainRecordJibunAddressFallback(t *testing.T) {
	rec := toDomainRecord(tradeItem{
		UmdNm: "역삼동",
		Jibun: "649-5",
	})
	assert.Equal(t, "역삼동 649-5", rec.Address)
}

func TestToDomainRecordDongFromJibun(t *testing.T) {
	// дон восстанавливается из jibun, когда umdNm пуст
	rec := toDomainRecord(tradeItem{Jibun: "삼성동 87"})
	assert.Equal(t, "삼성동", rec.DongName)

	rec = toDomainRecord(tradeItem{Jibun: "문발리 123"})
	assert.Equal(t, "문발리", rec.DongName)

	rec = toDomainRecord(tradeItem{Jibun: "123-4"})
	assert.Equal(t, "", rec.DongName)
}

func TestToDomainRecordDefaults(t *testing.T) {
	rec := toDomainRecord(tradeItem{
		DealAmount: "not-a-number",
		ExcluUseAr: "",
		Floor:      "",
		BuildYear:  "abc",
	})

	assert.Equal(t, int64(0), rec.Amount)
	assert.True(t, math.IsNaN(rec.Area))
	assert.Equal(t, 0, rec.Floor)
	assert.Equal(t, 0, rec.BuildYear)
	// без sn запись получает суррогатный id
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "직거래", rec.DealType)
}

func TestToDomainRecordSurrogateIDsUnique(t *testing.T) {
	first := toDomainRecord(tradeItem{})
	second := toDomainRecord(tradeItem{})
	assert.NotEqual(t, first.ID, second.ID)
}

func TestToDomainRecordCancellation(t *testing.T) {
	rec := toDomainRecord(tradeItem{
		CdealType: "O",
		CdealDay:  "24.02.15",
	})
	assert.True(t, rec.Canceled)
	assert.Equal(t, "24.02.15", rec.CancelDate)

	rec = toDomainRecord(tradeItem{CdealType: ""})
	assert.False(t, rec.Canceled)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, int64(50000), parseAmount("50,000"))
	assert.Equal(t, int64(1250000), parseAmount(" 1,250,000 "))
	assert.Equal(t, int64(0), parseAmount(""))
	assert.Equal(t, int64(0), parseAmount("oops"))
}

func TestPadTwo(t *testing.T) {
	assert.Equal(t, "01", padTwo("1"))
	assert.Equal(t, "12", padTwo("12"))
	assert.Equal(t, "05", padTwo(" 5 "))
}
