package handler

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Numeric request fields are coerced instead of rejected: numeric strings parse
// and any other non-numeric value becomes zero.

var (
	assumptionFloats = []string{"euribor", "ftp_spread", "tax_rate"}
	productFloats    = []string{"spread", "danger_rate", "commission_rate", "rwa_density", "avg_loan_size", "equity_upside"}
	productInts      = []string{"duration", "grace_period"}
	volumeFloats     = []string{"y1", "y10"}
	recoveryFloats   = []string{"ltv", "collateral_haircut", "recovery_costs", "state_guarantee_percentage"}
	recoveryInts     = []string{"state_guarantee_recovery_time", "time_to_recover"}
)

const maxIntField = math.MaxInt32

// relaxNumbers decodes body as a JSON object, rewrites its numeric fields with
// normalize and encodes it again.
func relaxNumbers(body []byte, normalize func(map[string]interface{})) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if doc != nil {
		normalize(doc)
	}
	return json.Marshal(doc)
}

func normalizeSimulation(doc map[string]interface{}) {
	if a, ok := object(doc, "assumptions"); ok {
		normalizeAssumptions(a)
	}
	products, ok := doc["products"].([]interface{})
	if !ok {
		return
	}
	for _, p := range products {
		if m, ok := p.(map[string]interface{}); ok {
			normalizeProduct(m)
		}
	}
}

func normalizeCompare(doc map[string]interface{}) {
	for _, key := range []string{"baseline", "scenario"} {
		if req, ok := object(doc, key); ok {
			normalizeSimulation(req)
		}
	}
}

func normalizeSavedAssumptions(doc map[string]interface{}) {
	if a, ok := object(doc, "assumptions"); ok {
		normalizeAssumptions(a)
	}
}

func normalizeAssumptions(a map[string]interface{}) {
	setNumbers(a, assumptionFloats, false)
	setNumberList(a, "quarterly_allocation")
}

func normalizeProduct(p map[string]interface{}) {
	setNumbers(p, productFloats, false)
	setNumbers(p, productInts, true)
	setNumberList(p, "volume_array")

	if v, ok := object(p, "volumes"); ok {
		setNumbers(v, volumeFloats, false)
	}
	if r, ok := object(p, "recovery"); ok {
		setNumbers(r, recoveryFloats, false)
		setNumbers(r, recoveryInts, true)
		if raw, present := r["unsecured_lgd"]; present {
			if f, ok := toNumber(raw); ok {
				r["unsecured_lgd"] = f
			} else {
				delete(r, "unsecured_lgd")
			}
		}
	}
}

// object returns m[key] as an object. A present value of any other kind is
// dropped so the field decodes as missing.
func object(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		return nil, false
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		delete(m, key)
	}
	return obj, ok
}

func setNumbers(m map[string]interface{}, keys []string, integer bool) {
	for _, k := range keys {
		raw, present := m[k]
		if !present {
			continue
		}
		f, _ := toNumber(raw)
		if integer {
			f = math.Max(-maxIntField, math.Min(math.Trunc(f), maxIntField))
		}
		m[k] = f
	}
}

func setNumberList(m map[string]interface{}, key string) {
	raw, present := m[key]
	if !present || raw == nil {
		return
	}
	list, ok := raw.([]interface{})
	if !ok {
		delete(m, key)
		return
	}
	for i, v := range list {
		list[i], _ = toNumber(v)
	}
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
