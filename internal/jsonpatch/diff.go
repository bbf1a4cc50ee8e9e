// Package jsonpatch computes RFC 6902 patches between JSON documents. It is
// used to show what changed between two simulation results or two saved
// assumption versions.
package jsonpatch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"credit-engine/internal/model"
)

// DiffDocuments decodes two JSON documents and returns the patch turning a into b.
func DiffDocuments(a, b []byte) ([]model.PatchOp, error) {
	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return nil, fmt.Errorf("decode source document: %w", err)
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return nil, fmt.Errorf("decode target document: %w", err)
	}
	return Diff(av, bv), nil
}

// DiffValues marshals two Go values and diffs their JSON forms.
func DiffValues(a, b interface{}) ([]model.PatchOp, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode source value: %w", err)
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode target value: %w", err)
	}
	return DiffDocuments(ab, bb)
}

// Diff computes the patch that transforms a into b. Both values must be the
// result of decoding JSON into interface{}. Operations are emitted in key order.
func Diff(a, b interface{}) []model.PatchOp {
	ops := diff(a, b, "")
	if ops == nil {
		return []model.PatchOp{}
	}
	return ops
}

func diff(a, b interface{}, path string) []model.PatchOp {
	if a == nil && b == nil {
		return nil
	}
	if a == nil || b == nil {
		return []model.PatchOp{{Op: "replace", Path: path, Value: b}}
	}

	aMap, aIsMap := a.(map[string]interface{})
	bMap, bIsMap := b.(map[string]interface{})
	if aIsMap && bIsMap {
		return diffObjects(aMap, bMap, path)
	}

	aArr, aIsArr := a.([]interface{})
	bArr, bIsArr := b.([]interface{})
	if aIsArr && bIsArr {
		return diffArrays(aArr, bArr, path)
	}

	if aIsMap || bIsMap || aIsArr || bIsArr || a != b {
		return []model.PatchOp{{Op: "replace", Path: path, Value: b}}
	}
	return nil
}

func diffObjects(a, b map[string]interface{}, path string) []model.PatchOp {
	var ops []model.PatchOp

	for _, k := range sortedKeys(a) {
		if _, ok := b[k]; !ok {
			ops = append(ops, model.PatchOp{Op: "remove", Path: path + "/" + escapeKey(k)})
		}
	}

	for _, k := range sortedKeys(b) {
		childPath := path + "/" + escapeKey(k)
		av, inA := a[k]
		if !inA {
			ops = append(ops, model.PatchOp{Op: "add", Path: childPath, Value: b[k]})
			continue
		}
		ops = append(ops, diff(av, b[k], childPath)...)
	}
	return ops
}

func diffArrays(a, b []interface{}, path string) []model.PatchOp {
	var ops []model.PatchOp

	common := len(a)
	if len(b) < common {
		common = len(b)
	}

	for i := 0; i < common; i++ {
		ops = append(ops, diff(a[i], b[i], path+"/"+strconv.Itoa(i))...)
	}

	// Remove from the end so earlier indexes stay valid.
	for i := len(a) - 1; i >= common; i-- {
		ops = append(ops, model.PatchOp{Op: "remove", Path: path + "/" + strconv.Itoa(i)})
	}
	for i := common; i < len(b); i++ {
		ops = append(ops, model.PatchOp{Op: "add", Path: path + "/" + strconv.Itoa(i), Value: b[i]})
	}
	return ops
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeKey escapes a JSON Pointer token per RFC 6901.
func escapeKey(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}
