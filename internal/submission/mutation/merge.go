// Package mutation applies partial updates to a submission document and
// invalidates answers whose governing answer changed.
package mutation

import "cites/internal/submission/models"

// DeepMerge returns dst with patch merged in. Objects merge key by key, arrays
// and scalars replace, and an explicit null removes the key. Neither input is
// modified.
func DeepMerge(dst, patch models.Document) models.Document {
	out := copyMap(dst)
	if out == nil {
		out = models.Document{}
	}
	mergeInto(out, patch)
	return out
}

func mergeInto(dst, patch map[string]any) {
	for k, pv := range patch {
		if pv == nil {
			delete(dst, k)
			continue
		}
		pm, patchIsMap := pv.(map[string]any)
		dm, dstIsMap := dst[k].(map[string]any)
		if patchIsMap && dstIsMap {
			mergeInto(dm, pm)
			continue
		}
		if patchIsMap {
			// Nulls inside a new object still mean "absent".
			fresh := map[string]any{}
			mergeInto(fresh, pm)
			dst[k] = fresh
			continue
		}
		dst[k] = copyValue(pv)
	}
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// pruneEmpty drops objects left empty by clearing so that they decode as
// absent rather than as zero-valued records.
func pruneEmpty(m map[string]any) {
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			pruneEmpty(t)
			if len(t) == 0 {
				delete(m, k)
			}
		case []any:
			for _, e := range t {
				if em, ok := e.(map[string]any); ok {
					pruneEmpty(em)
				}
			}
		}
	}
}
