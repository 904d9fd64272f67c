package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckProductTypeMatch(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"одинаковый тип", "Молоко Простоквашино 1л", "Молоко Домик в деревне 1л", true},
		{"разные части курицы", "Крылья куриные охл.", "Голень куриная охл.", false},
		{"разная жирность", "Молоко 3,2% 1л", "Молоко 2,5% 1л", false},
		{"разные вкусы", "Йогурт ванильный", "Йогурт клубничный", false},
		{"набор против одиночного", "Набор конфет", "Конфеты", false},
		{"односторонний модификатор", "Сельдь копченая", "Сельдь", false},
		{"группы не пересекаются по наличию", "Хлеб бородинский", "Молоко 1л", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ExtractFeatures(tc.a, "")
			b := ExtractFeatures(tc.b, "")
			got, _, _ := checkProductTypeMatch(a, b)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckProductTypeMatchFatPercent(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		// "5%" входит в "2.5%" и "3.5%" как подстрока; сравнение обязано
		// идти по числу, а не по литералу
		{"2.5 против 3.5", "Молоко Простоквашино 2,5% 930мл", "Молоко Простоквашино 3,5% 930мл", false},
		{"3.2 против 2.5", "Молоко 3,2% 1л", "Молоко 2,5% 1л", false},
		{"равная жирность", "Молоко 3,2% 1л", "Молоко отборное 3,2% 1л", true},
		{"жирность только с одной стороны", "Молоко 3,2% 1л", "Молоко 1л", true},
		{"обезжиренное против жирного", "Молоко обезжиренное 1л", "Молоко 3,2% 1л", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ExtractFeatures(tc.a, "")
			b := ExtractFeatures(tc.b, "")
			got, _, _ := checkProductTypeMatch(a, b)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckProductTypeMatchWordStart(t *testing.T) {
	// "лук" внутри "каблук" — не овощ; основа считается найденной
	// только в начале слова
	a := ExtractFeatures("Морковь мытая 1кг", "")
	b := ExtractFeatures("Каблук женский", "")
	got, _, _ := checkProductTypeMatch(a, b)
	assert.True(t, got)

	// основа в начале слова по-прежнему находит словоформы
	a = ExtractFeatures("Сок томатный 1л", "")
	b = ExtractFeatures("Огурцы маринованные 500г", "")
	got, kwA, kwB := checkProductTypeMatch(a, b)
	assert.False(t, got)
	assert.Equal(t, "томат", kwA)
	assert.Equal(t, "огурц", kwB)
}

func TestContainsAtWordStart(t *testing.T) {
	assert.True(t, containsAtWordStart("сок томатный", "томат"))
	assert.True(t, containsAtWordStart("томатный сок", "томат"))
	assert.False(t, containsAtWordStart("каблук женский", "лук"))
	assert.True(t, containsAtWordStart("каблук лук репчатый", "лук"))
	assert.False(t, containsAtWordStart("", "лук"))
}
