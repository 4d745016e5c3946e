package filter

import (
	"github.com/KilimcininKorOglu/dizin/entry"
	"github.com/KilimcininKorOglu/dizin/schema"
)

// Evaluator evaluates search filters against entries.
//
// When constructed with registries, matching uses the attribute's effective
// equality and ordering rules so that, for example, an integer attribute
// compares numerically and a case-exact attribute compares case-sensitively.
// Without registries every comparison falls back to case-insensitive byte
// matching.
type Evaluator struct {
	registries *schema.Registries
}

// NewEvaluator creates a new filter evaluator backed by the given registries.
// A nil registries is allowed and selects the fallback matching.
func NewEvaluator(r *schema.Registries) *Evaluator {
	return &Evaluator{
		registries: r,
	}
}

// Registries returns the evaluator's registries.
func (e *Evaluator) Registries() *schema.Registries {
	return e.registries
}

// Evaluate tests whether an entry matches a filter.
func (e *Evaluator) Evaluate(filter *Filter, ent *entry.Entry) bool {
	if filter == nil || ent == nil {
		return false
	}

	switch filter.Type {
	case FilterAnd:
		return e.evaluateAnd(filter, ent)
	case FilterOr:
		return e.evaluateOr(filter, ent)
	case FilterNot:
		return e.evaluateNot(filter, ent)
	case FilterEquality:
		return e.evaluateEquality(filter.Attribute, filter.Value, ent)
	case FilterSubstring:
		return e.evaluateSubstring(filter.Substring, ent)
	case FilterPresent:
		return len(ent.GetAttribute(filter.Attribute)) > 0
	case FilterGreaterOrEqual:
		return e.evaluateOrdering(filter.Attribute, filter.Value, ent, false)
	case FilterLessOrEqual:
		return e.evaluateOrdering(filter.Attribute, filter.Value, ent, true)
	case FilterApproxMatch:
		return e.evaluateApproxMatch(filter.Attribute, filter.Value, ent)
	default:
		return false
	}
}

// evaluateAnd returns true only if all children match. An empty AND filter
// matches everything.
func (e *Evaluator) evaluateAnd(filter *Filter, ent *entry.Entry) bool {
	for _, child := range filter.Children {
		if !e.Evaluate(child, ent) {
			return false
		}
	}
	return true
}

// evaluateOr returns true if any child matches. An empty OR filter matches
// nothing.
func (e *Evaluator) evaluateOr(filter *Filter, ent *entry.Entry) bool {
	for _, child := range filter.Children {
		if e.Evaluate(child, ent) {
			return true
		}
	}
	return false
}

func (e *Evaluator) evaluateNot(filter *Filter, ent *entry.Entry) bool {
	if filter.Child == nil {
		return false
	}
	return !e.Evaluate(filter.Child, ent)
}

// evaluateEquality tests if an entry has an attribute with the given value,
// using the attribute's equality matching rule when the schema knows it.
func (e *Evaluator) evaluateEquality(attr string, value []byte, ent *entry.Entry) bool {
	values := ent.GetAttribute(attr)
	if len(values) == 0 {
		return false
	}

	rule := e.equalityRule(attr)
	for _, v := range values {
		if rule != nil {
			if result, err := rule.Match(string(v), string(value)); err == nil {
				if result == 0 {
					return true
				}
				continue
			}
		}
		if matchEquality(v, value) {
			return true
		}
	}
	return false
}

// evaluateSubstring tests if an entry has an attribute matching the
// substring pattern. Values are run through the attribute's equality
// normalizer before matching when available.
func (e *Evaluator) evaluateSubstring(sf *SubstringFilter, ent *entry.Entry) bool {
	if sf == nil {
		return false
	}

	values := ent.GetAttribute(sf.Attribute)
	if len(values) == 0 {
		return false
	}

	norm := e.normalizerFor(sf.Attribute)
	initial := normalizeComponent(norm, sf.Initial)
	final := normalizeComponent(norm, sf.Final)
	any := make([][]byte, len(sf.Any))
	for i, a := range sf.Any {
		any[i] = normalizeComponent(norm, a)
	}

	for _, v := range values {
		if matchSubstring(normalizeComponent(norm, v), initial, any, final) {
			return true
		}
	}
	return false
}

// evaluateOrdering tests value<=threshold or value>=threshold using the
// attribute's ordering rule when the schema knows one.
func (e *Evaluator) evaluateOrdering(attr string, threshold []byte, ent *entry.Entry, lessOrEqual bool) bool {
	values := ent.GetAttribute(attr)
	if len(values) == 0 {
		return false
	}

	rule := e.orderingRule(attr)
	for _, v := range values {
		if rule != nil {
			if result, err := rule.Match(string(v), string(threshold)); err == nil {
				if (lessOrEqual && result <= 0) || (!lessOrEqual && result >= 0) {
					return true
				}
				continue
			}
		}
		if lessOrEqual {
			if matchLessOrEqual(v, threshold) {
				return true
			}
		} else if matchGreaterOrEqual(v, threshold) {
			return true
		}
	}
	return false
}

// evaluateApproxMatch tests if an entry has an attribute approximately
// matching the value. LDAP leaves approximate semantics server-defined;
// this implementation compares whitespace-collapsed, case-folded values.
func (e *Evaluator) evaluateApproxMatch(attr string, value []byte, ent *entry.Entry) bool {
	for _, v := range ent.GetAttribute(attr) {
		if matchApprox(v, value) {
			return true
		}
	}
	return false
}

func (e *Evaluator) equalityRule(attr string) *schema.MatchingRule {
	if e.registries == nil {
		return nil
	}
	at, err := e.registries.AttributeType(attr)
	if err != nil {
		return nil
	}
	return at.EffectiveEquality()
}

func (e *Evaluator) orderingRule(attr string) *schema.MatchingRule {
	if e.registries == nil {
		return nil
	}
	at, err := e.registries.AttributeType(attr)
	if err != nil {
		return nil
	}
	if rule := at.EffectiveOrdering(); rule != nil {
		return rule
	}
	return at.EffectiveEquality()
}

func (e *Evaluator) normalizerFor(attr string) *schema.Normalizer {
	rule := e.equalityRule(attr)
	if rule == nil {
		return nil
	}
	return rule.Normalizer()
}

func normalizeComponent(norm *schema.Normalizer, value []byte) []byte {
	if norm == nil || len(value) == 0 {
		return value
	}
	normalized, err := norm.Normalize(string(value))
	if err != nil {
		return value
	}
	return []byte(normalized)
}
