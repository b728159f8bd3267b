package restriction

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Policy набор правил ограничения циркуляции для одной юрисдикции.
// Список псевдонимов города и таблица ротации по цифрам номерного
// знака заданы данными, а не кодом: новая юрисдикция добавляется
// конфигурацией без изменения движка.
type Policy struct {
	// City каноническое имя города, к которому применяется ротация
	City string `mapstructure:"city"`

	// State код штата города
	State string `mapstructure:"state"`

	// CityAliases нормализованные варианты написания города для
	// точного сопоставления и поиска по подстроке
	CityAliases []string `mapstructure:"city_aliases"`

	// SuppressTerms квалификаторы, означающие "весь штат" или
	// "интерьер": их присутствие подавляет совпадение по подстроке,
	// чтобы не путать штат с одноименным городом
	SuppressTerms []string `mapstructure:"suppress_terms"`

	// Rotation запрещенные последние цифры номерного знака по дням
	// недели. Суббота и воскресенье не ограничиваются.
	Rotation map[time.Weekday][]byte `mapstructure:"-"`
}

// DefaultPolicy возвращает правила родизио города Сан-Паулу
func DefaultPolicy() *Policy {
	return &Policy{
		City:  "sao paulo",
		State: "SP",
		CityAliases: []string{
			"sao paulo",
			"sp capital",
			"capital paulista",
			"cidade de sao paulo",
		},
		SuppressTerms: []string{
			"interior",
			"estado de",
			"estado do",
			"litoral",
		},
		Rotation: map[time.Weekday][]byte{
			time.Monday:    {'1', '2'},
			time.Tuesday:   {'3', '4'},
			time.Wednesday: {'5', '6'},
			time.Thursday:  {'7', '8'},
			time.Friday:    {'9', '0'},
		},
	}
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold нормализует текст для сопоставления: убирает диакритику,
// приводит к нижнему регистру и схлопывает пробелы
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
