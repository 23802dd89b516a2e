package analytics

import (
	"fieldservice-dashboard/internal/storage"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Unknown = "Unknown"

var (
	nonNumericChars = regexp.MustCompile(`[^0-9.\-]`)
	leadingFloat    = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	yearsPattern    = regexp.MustCompile(`(?i)(\d+)\s*Tahun`)
	monthsPattern   = regexp.MustCompile(`(?i)(\d+)\s*Bulan`)
	numericValue    = regexp.MustCompile(`^-?\d+\.?\d*$`)
	spaces          = regexp.MustCompile(`\s+`)
)

// Text приводит значение поля к строке без пробелов по краям.
// nil и плейсхолдеры "null"/"undefined" дают пустую строку.
func Text(v interface{}) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(cast.ToString(v))
	if isPlaceholder(s) {
		return ""
	}
	return s
}

func isPlaceholder(s string) bool {
	l := strings.ToLower(s)
	return l == "null" || l == "undefined"
}

// ToNumber: строка с мусором (валюта, пробелы), число или nil -> целое.
// Не парсится -> 0.
func ToNumber(v interface{}) int {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(math.Floor(f))
}

// ToFloat работает как ToNumber, но без округления и с признаком успеха.
func ToFloat(v interface{}) (float64, bool) {
	return toFloat(v)
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		parsed, ok := parseLeadingFloat(nonNumericChars.ReplaceAllString(val, ""))
		if !ok {
			return 0, false
		}
		f = parsed
	case bool:
		return 0, false
	default:
		parsed, err := cast.ToFloat64E(val)
		if err != nil {
			parsed, ok := parseLeadingFloat(nonNumericChars.ReplaceAllString(cast.ToString(val), ""))
			if !ok {
				return 0, false
			}
			f = parsed
		} else {
			f = parsed
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseLeadingFloat разбирает самый длинный числовой префикс строки.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToList режет строку через запятую, пустые и null-плейсхолдеры выкидываются.
func ToList(v interface{}) []string {
	out := make([]string, 0)
	raw := Text(v)
	if raw == "" {
		return out
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || isPlaceholder(part) {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseExperienceYears: "3 Tahun 2 Bulan" -> 3, "7" -> 7, мусор -> 0.
func ParseExperienceYears(v interface{}) int {
	s := Text(v)
	if s == "" {
		return 0
	}
	if m := yearsPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n
		}
	}
	f, ok := parseLeadingFloat(s)
	if !ok || f < 0 {
		return 0
	}
	return int(math.Floor(f))
}

// ParseExperience учитывает месяцы: "3 Tahun 6 Bulan" -> 3.5.
func ParseExperience(v interface{}) float64 {
	s := Text(v)
	if s == "" {
		return 0
	}
	ym := yearsPattern.FindStringSubmatch(s)
	mm := monthsPattern.FindStringSubmatch(s)
	if ym == nil && mm == nil {
		f, ok := parseLeadingFloat(s)
		if !ok || f < 0 {
			return 0
		}
		return f
	}
	var years, months int
	if ym != nil {
		years, _ = strconv.Atoi(ym[1])
	}
	if mm != nil {
		months, _ = strconv.Atoi(mm[1])
	}
	return float64(years) + float64(months)/12
}

// IsNumericText - значение целиком число ("12", "-3.5").
func IsNumericText(s string) bool {
	return numericValue.MatchString(strings.TrimSpace(s))
}

// Field возвращает первое непустое значение из списка алиасов.
func Field(r storage.Record, aliases ...string) (interface{}, bool) {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && (strings.TrimSpace(s) == "" || isPlaceholder(strings.TrimSpace(s))) {
			continue
		}
		return v, true
	}
	return nil, false
}

func FieldText(r storage.Record, aliases ...string) string {
	v, ok := Field(r, aliases...)
	if !ok {
		return ""
	}
	return Text(v)
}

// FieldOr - FieldText с дефолтом для пустого значения.
func FieldOr(r storage.Record, def string, aliases ...string) string {
	if s := FieldText(r, aliases...); s != "" {
		return s
	}
	return def
}

type LocationStock struct {
	Key      string `json:"location"`
	Name     string `json:"locationName"`
	Quantity int    `json:"stock"`
}

// IsLocationStockKey: поле с остатком на конкретной FSL/CCW.
func IsLocationStockKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "idfsl") || strings.Contains(k, "idccw")
}

// LocationStocks собирает остатки по локациям, ключи по возрастанию.
func LocationStocks(r storage.Record) []LocationStock {
	keys := make([]string, 0)
	for k := range r {
		if IsLocationStockKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]LocationStock, 0, len(keys))
	for _, k := range keys {
		out = append(out, LocationStock{
			Key:      k,
			Name:     LocationName(k),
			Quantity: ToNumber(r[k]),
		})
	}
	return out
}

// GrandTotal всегда пересчитывается по локациям, сохраненному total не верим.
func GrandTotal(r storage.Record) int {
	total := 0
	for k, v := range r {
		if IsLocationStockKey(k) {
			total += ToNumber(v)
		}
	}
	return total
}

var (
	fslKey = regexp.MustCompile(`(?i)_fsl_(.+)$`)
	ccwKey = regexp.MustCompile(`(?i)^idccw(\d+)_(.+)$`)
)

// LocationName: "idfsl01_fsl_bandung" -> "FSL Bandung",
// "idccw00_cash_center" -> "Cash Center (Jakarta)".
func LocationName(key string) string {
	if m := fslKey.FindStringSubmatch(key); m != nil {
		return "FSL " + titleWords(m[1])
	}
	if m := ccwKey.FindStringSubmatch(key); m != nil {
		name := titleWords(m[2])
		if m[1] == "00" {
			name += " (Jakarta)"
		}
		return name
	}
	return titleWords(key)
}

func titleWords(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	// Caser не потокобезопасен, создаем на каждый вызов
	return cases.Title(language.Indonesian).String(spaces.ReplaceAllString(s, " "))
}

var (
	areaDashNumber = regexp.MustCompile(`\s*-\s*\d+$`)
	areaNumber     = regexp.MustCompile(`\s+\d+$`)
	areaRoman      = regexp.MustCompile(`(?i)\s+(I{1,3}|IV|V|VI|VII|VIII|IX|X)$`)
	areaKota       = regexp.MustCompile(`(?i)\s+kota$`)
	areaSuffix     = regexp.MustCompile(`(?i)\s+area$`)
	areaDash       = regexp.MustCompile(`\s*-\s*$`)
	jakaratTypo    = regexp.MustCompile(`(?i)jakarat`)
)

// NormalizeAreaGroup склеивает "Surabaya 1", "Surabaya II", "Surabaya Kota" в "Surabaya".
func NormalizeAreaGroup(v interface{}) string {
	s := Text(v)
	if s == "" {
		return Unknown
	}
	l := strings.ToLower(s)
	if strings.Contains(l, "jakarat") && !strings.Contains(l, "jakarta") {
		s = jakaratTypo.ReplaceAllString(s, "Jakarta")
	}
	s = areaDashNumber.ReplaceAllString(s, "")
	s = areaNumber.ReplaceAllString(s, "")
	s = areaRoman.ReplaceAllString(s, "")
	s = areaKota.ReplaceAllString(s, "")
	s = areaSuffix.ReplaceAllString(s, "")
	s = areaDash.ReplaceAllString(s, "")
	return titleWords(s)
}

// round - аналог toFixed(places).
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// roundInt - Math.round: половина вверх.
func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

// Percentage = round(part/whole*100), whole == 0 -> 0.
func Percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return roundInt(float64(part) / float64(whole) * 100)
}

// mean пустого набора = 0.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
