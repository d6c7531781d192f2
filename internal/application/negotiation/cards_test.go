package negotiation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
)

var (
	testProduct = &catalog.Product{Code: 363482, Name: "Колесо R17", Price: 1999.5, BrandID: 7}
	testProfile = &catalog.Profile{
		RequesterID: 777,
		AccountID:   10444,
		AccountName: "ТОВ Оптовик",
		DisplayName: "optovyk",
		OwnerName:   "Олена",
	}
)

func TestProductCaption(t *testing.T) {
	caption := productCaption(testProduct)
	assert.Contains(t, caption, "363482")
	assert.Contains(t, caption, "Колесо R17")
	assert.Contains(t, caption, "1999.5 грн")
}

func TestManagerCard(t *testing.T) {
	card := managerCard(testProduct, testProfile, true, "🔔 Клієнт зацікавився товаром")
	assert.True(t, strings.HasPrefix(card, "🔔 Клієнт зацікавився товаром"))
	assert.Contains(t, card, "[ID: 10444] ТОВ Оптовик (optovyk)")
	assert.Contains(t, card, "Менеджер клієнта: Олена")
	assert.Contains(t, card, "Термінове")

	card = managerCard(testProduct, testProfile, false, "")
	assert.False(t, strings.HasPrefix(card, "\n"))
	assert.Contains(t, card, "Не термінове")
}

func TestDispatchCardCapsStockLines(t *testing.T) {
	stock := make([]catalog.StockRow, 8)
	for i := range stock {
		stock[i] = catalog.StockRow{LocationName: fmt.Sprintf("Shop-%d", i), ProductCode: 363482, Quantity: int64(i + 1)}
	}
	card := dispatchCard(testProduct, testProfile, false, stock, "")
	assert.Contains(t, card, "Shop-4")
	assert.NotContains(t, card, "Shop-5")
	assert.Contains(t, card, "... та ще 3 магазинів")

	assert.NotContains(t, dispatchCard(testProduct, testProfile, false, nil, ""), "Наявність")
}

func TestInterestSectionCap(t *testing.T) {
	assert.Empty(t, interestSection(nil))

	rows := make([]catalog.InterestRow, 5)
	for i := range rows {
		rows[i] = catalog.InterestRow{Date: time.Date(2026, 8, i+1, 0, 0, 0, 0, time.UTC), AccountName: fmt.Sprintf("Acc-%d", i)}
	}
	section := interestSection(rows)
	assert.Contains(t, section, "Acc-2")
	assert.NotContains(t, section, "Acc-3")
	assert.Contains(t, section, "... та ще 2 запитів")
	assert.Contains(t, section, "01.08.2026")
}

func TestPledgeSectionCap(t *testing.T) {
	assert.Empty(t, pledgeSection(nil))

	rows := make([]catalog.PledgeRow, 4)
	for i := range rows {
		rows[i] = catalog.PledgeRow{Date: time.Now(), BranchName: fmt.Sprintf("Branch-%d", i)}
	}
	section := pledgeSection(rows)
	assert.Contains(t, section, "Branch-1")
	assert.NotContains(t, section, "Branch-2")
	assert.Contains(t, section, "... та ще 2 застав")
}

func TestPickupCard(t *testing.T) {
	selected := &catalog.Location{ID: 13819, Name: "Kyiv-1"}
	candidates := []catalog.Location{{ID: 13819, Name: "Kyiv-1"}, {ID: 14177, Name: "Kyiv-2"}}

	card := pickupCard(testProduct, testProfile, selected, candidates, "Іван Петренко", "банер")
	assert.True(t, strings.HasPrefix(card, "банер"))
	assert.Contains(t, card, "Обраний магазин клієнтом: Kyiv-1")
	assert.Contains(t, card, "👤 Отримувач: Іван Петренко")
	assert.Contains(t, card, "Kyiv-2 (ID: 14177)")

	card = pickupCard(testProduct, testProfile, selected, nil, "", "")
	assert.NotContains(t, card, "Отримувач")
	assert.NotContains(t, card, "Доступні магазини")
}

func TestNonEmpty(t *testing.T) {
	assert.Empty(t, nonEmpty("", ""))
	assert.Equal(t, []string{"a", "b"}, nonEmpty("", "a", "", "b"))
}
