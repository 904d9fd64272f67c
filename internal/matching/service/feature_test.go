package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricescout/internal/matching/model"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "молоко простоквашино 3.2% 1л", normalizeText("Молоко «Простоквашино» 3,2% 1л"))
	assert.Equal(t, "творог 0.5 кг", normalizeText("Творог   0,5 кг!!!"))
	assert.Equal(t, "елка", normalizeText("Ёлка"))
	assert.Equal(t, "", normalizeText(""))
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("молоко для детей 1л the набор")
	assert.Contains(t, tokens, "молоко")
	assert.Contains(t, tokens, "детей")
	assert.Contains(t, tokens, "набор")
	// стоп-слова и короткие токены отбрасываются
	assert.NotContains(t, tokens, "для")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "1л")
}

func TestIsBundle(t *testing.T) {
	assert.True(t, isBundle(normalizeText("Набор конфет Merci")))
	assert.True(t, isBundle(normalizeText("Шампунь 3 в 1")))
	assert.True(t, isBundle(normalizeText("Носки 3x2")))
	assert.True(t, isBundle(normalizeText("Gift Set deluxe")))
	assert.False(t, isBundle(normalizeText("Молоко Простоквашино 1л")))
}

func TestExtractQuantities(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []model.Quantity
	}{
		{"литры в мл", "Молоко 1л", []model.Quantity{{Value: 1000, Unit: model.UnitMilliliters}}},
		{"граммы", "Сыр 500г", []model.Quantity{{Value: 500, Unit: model.UnitGrams}}},
		{"кг в граммы", "Мука 2кг", []model.Quantity{{Value: 2000, Unit: model.UnitGrams}}},
		{"штучный", "Салфетки 100шт", []model.Quantity{{Value: 100, Unit: model.UnitPieces}}},
		{"дробные", "Кефир 0,9 л", []model.Quantity{{Value: 900, Unit: model.UnitMilliliters}}},
		{"без объёма", "Хлеб бородинский", nil},
		{"единица внутри слова не считается", "шоколад", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractQuantities(normalizeText(tc.in)))
		})
	}
}

func TestExtractQuantitiesDropsEggWeight(t *testing.T) {
	// 700г / 10шт = 70 г на штуку — это вес яйца, граммовку выбрасываем
	got := extractQuantities(normalizeText("Яйца С1 10шт 700г"))
	require.Len(t, got, 1)
	assert.Equal(t, model.Quantity{Value: 10, Unit: model.UnitPieces}, got[0])

	// 500г / 2шт = 250 г на штуку — вне диапазона, обе величины остаются
	got = extractQuantities(normalizeText("Курица 2шт 500г"))
	assert.Len(t, got, 2)
}

func TestCompareVolumeLists(t *testing.T) {
	ml := func(v float64) []model.Quantity { return []model.Quantity{{Value: v, Unit: model.UnitMilliliters}} }
	g := func(v float64) []model.Quantity { return []model.Quantity{{Value: v, Unit: model.UnitGrams}} }

	ok, exact := compareVolumeLists(nil, nil)
	assert.True(t, ok)
	assert.True(t, exact)

	// отсутствие данных с одной стороны совместимо, но не точно
	ok, exact = compareVolumeLists(ml(1000), nil)
	assert.True(t, ok)
	assert.False(t, exact)

	// в пределах 2%
	ok, exact = compareVolumeLists(ml(1000), ml(1015))
	assert.True(t, ok)
	assert.True(t, exact)

	ok, _ = compareVolumeLists(ml(1000), ml(900))
	assert.False(t, ok)

	// разные единицы несовместимы
	ok, _ = compareVolumeLists(ml(500), g(500))
	assert.False(t, ok)
}

func TestEntryFeaturesUsesExplicitWeight(t *testing.T) {
	// вес из каталога подставляется только при отсутствии объёма в имени
	e := &model.CatalogEntry{Name: "Молоко Простоквашино", WeightValue: 1, WeightUnit: "л"}
	fs := entryFeatures(e)
	require.Len(t, fs.Quantities, 1)
	assert.Equal(t, model.Quantity{Value: 1000, Unit: model.UnitMilliliters}, fs.Quantities[0])

	e = &model.CatalogEntry{Name: "Молоко Простоквашино 1л", WeightValue: 500, WeightUnit: "мл"}
	fs = entryFeatures(e)
	require.Len(t, fs.Quantities, 1)
	assert.Equal(t, float64(1000), fs.Quantities[0].Value)
}
