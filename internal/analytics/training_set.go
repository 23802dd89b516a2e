package analytics

import (
	"fieldservice-dashboard/internal/constants"
	"fieldservice-dashboard/internal/storage"
	"sort"
	"strings"
)

// TrainingSet - тренинги инженера без дублей, в порядке обнаружения.
// Сравнение без учета регистра и лишних пробелов.
type TrainingSet struct {
	labels []string
	index  map[string]struct{}
}

func newTrainingSet() TrainingSet {
	return TrainingSet{labels: make([]string, 0), index: make(map[string]struct{})}
}

func (s *TrainingSet) add(label string) {
	key := strings.ToLower(label)
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = struct{}{}
	s.labels = append(s.labels, label)
}

func (s TrainingSet) Has(label string) bool {
	_, ok := s.index[strings.ToLower(TrainingLabel(label))]
	return ok
}

func (s TrainingSet) Len() int { return len(s.labels) }

func (s TrainingSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

var canonicalTrainings = func() map[string]string {
	m := make(map[string]string, len(constants.TrainingOrder))
	for _, t := range constants.TrainingOrder {
		m[strings.ToLower(t)] = t
	}
	return m
}()

// TrainingLabel нормализует название к виду "Training <Name>".
// Известные тренинги приводятся к каноническому написанию.
func TrainingLabel(raw string) string {
	name := strings.TrimSpace(spaces.ReplaceAllString(raw, " "))
	if name == "" {
		return ""
	}
	prefix := strings.TrimSpace(constants.TrainingPrefix)
	if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) && name[len(prefix)] == ' ' {
		name = strings.TrimSpace(name[len(prefix):])
	}
	label := constants.TrainingPrefix + name
	if canonical, ok := canonicalTrainings[strings.ToLower(label)]; ok {
		return canonical
	}
	return label
}

// DeriveTrainingSet: списки через запятую из technical/soft полей
// плюс любые другие поля, похожие на тренинг по ключевым словам.
func DeriveTrainingSet(r storage.Record) TrainingSet {
	set := newTrainingSet()

	for _, field := range constants.TrainingListFields {
		for _, item := range ToList(r[field]) {
			if label := TrainingLabel(item); label != "" {
				set.add(label)
			}
		}
	}

	// map без порядка, поэтому ключи сортируем
	keys := make([]string, 0, len(r))
	for k := range r {
		if !constants.TrainingScanSkip[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		value := Text(r[k])
		if value == "" || IsNumericText(value) || !hasTrainingKeyword(value) {
			continue
		}
		if label := TrainingLabel(value); label != "" {
			set.add(label)
		}
	}

	return set
}

func hasTrainingKeyword(value string) bool {
	l := strings.ToLower(value)
	for _, kw := range constants.TrainingKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// SortTrainings: сначала канонический порядок, остальное по алфавиту.
func SortTrainings(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)

	order := make(map[string]int, len(constants.TrainingOrder))
	for i, t := range constants.TrainingOrder {
		order[t] = i
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, iKnown := order[out[i]]
		oj, jKnown := order[out[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}
