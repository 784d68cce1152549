// builtin_schema.go — ValidateSchema, a small JSON-Schema-subset validator
// over engine values. Supported keywords: type, properties, required, items,
// enum, minimum, maximum, minLength, maxLength, pattern. Unknown keywords are
// ignored so schemas written for fuller validators still check their
// supported parts.
package jyro

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

func registerSchemaBuiltins() {
	// ValidateSchema(value, schema) -> {valid: bool, errors: [str]}
	register("ValidateSchema", func(_ *interp, args []Value, line int) Value {
		expectArgs("ValidateSchema", args, line, 2, 2)
		schema := objArg("ValidateSchema", args, 1, line)
		var errs []Value
		validateNode(args[0], schema, "$", line, &errs)
		out := NewMapObject()
		out.Set("valid", Bool(len(errs) == 0))
		out.Set("errors", Arr(errs))
		return Obj(out)
	})
}

func validateNode(v Value, schema *MapObject, path string, line int, errs *[]Value) {
	if tv, ok := schema.Get("type"); ok {
		want, oks := tv.Data.(string)
		if !oks || tv.Tag != VTStr {
			failAt(DiagTypeMismatch, line, "ValidateSchema: \"type\" must be a string")
		}
		if !schemaTypeMatches(v, want) {
			addErr(errs, "%s: expected %s, got %s", path, want, v.Tag.TypeName())
			return
		}
	}

	if ev, ok := schema.Get("enum"); ok {
		if ev.Tag != VTArray {
			failAt(DiagTypeMismatch, line, "ValidateSchema: \"enum\" must be an array")
		}
		found := false
		for _, cand := range ev.Data.(*ArrayObject).Elems {
			if sameValue(v, cand) {
				found = true
				break
			}
		}
		if !found {
			addErr(errs, "%s: value not in enum", path)
		}
	}

	if v.Tag == VTNum {
		n := v.Data.(float64)
		if mv, ok := schemaNum(schema, "minimum", line); ok && n < mv {
			addErr(errs, "%s: %s is below minimum %s", path, formatNumber(n), formatNumber(mv))
		}
		if mv, ok := schemaNum(schema, "maximum", line); ok && n > mv {
			addErr(errs, "%s: %s is above maximum %s", path, formatNumber(n), formatNumber(mv))
		}
	}

	if v.Tag == VTStr {
		s := v.Data.(string)
		runes := utf8.RuneCountInString(s)
		if mv, ok := schemaNum(schema, "minLength", line); ok && float64(runes) < mv {
			addErr(errs, "%s: string shorter than minLength %s", path, formatNumber(mv))
		}
		if mv, ok := schemaNum(schema, "maxLength", line); ok && float64(runes) > mv {
			addErr(errs, "%s: string longer than maxLength %s", path, formatNumber(mv))
		}
		if pv, ok := schema.Get("pattern"); ok {
			if pv.Tag != VTStr {
				failAt(DiagTypeMismatch, line, "ValidateSchema: \"pattern\" must be a string")
			}
			re, err := regexp.Compile(pv.Data.(string))
			if err != nil {
				failAt(DiagTypeMismatch, line, "ValidateSchema: bad pattern: %v", err)
			}
			if !re.MatchString(s) {
				addErr(errs, "%s: string does not match pattern", path)
			}
		}
	}

	if v.Tag == VTObj {
		obj := v.Data.(*MapObject)
		if rv, ok := schema.Get("required"); ok {
			if rv.Tag != VTArray {
				failAt(DiagTypeMismatch, line, "ValidateSchema: \"required\" must be an array")
			}
			for _, name := range rv.Data.(*ArrayObject).Elems {
				if name.Tag != VTStr {
					failAt(DiagTypeMismatch, line, "ValidateSchema: \"required\" entries must be strings")
				}
				if _, present := obj.Get(name.Data.(string)); !present {
					addErr(errs, "%s: missing required field %q", path, name.Data.(string))
				}
			}
		}
		if pv, ok := schema.Get("properties"); ok {
			if pv.Tag != VTObj {
				failAt(DiagTypeMismatch, line, "ValidateSchema: \"properties\" must be an object")
			}
			props := pv.Data.(*MapObject)
			for _, k := range props.Keys {
				sub, _ := props.Get(k)
				if sub.Tag != VTObj {
					failAt(DiagTypeMismatch, line, "ValidateSchema: property schema for %q must be an object", k)
				}
				if fv, present := obj.Get(k); present {
					validateNode(fv, sub.Data.(*MapObject), path+"."+k, line, errs)
				}
			}
		}
	}

	if v.Tag == VTArray {
		if iv, ok := schema.Get("items"); ok {
			if iv.Tag != VTObj {
				failAt(DiagTypeMismatch, line, "ValidateSchema: \"items\" must be an object")
			}
			sub := iv.Data.(*MapObject)
			for i, e := range v.Data.(*ArrayObject).Elems {
				validateNode(e, sub, fmt.Sprintf("%s[%d]", path, i), line, errs)
			}
		}
	}
}

func schemaTypeMatches(v Value, want string) bool {
	switch want {
	case "null":
		return v.Tag == VTNull
	case "boolean":
		return v.Tag == VTBool
	case "number":
		return v.Tag == VTNum
	case "integer":
		if v.Tag != VTNum {
			return false
		}
		n := v.Data.(float64)
		return n == float64(int64(n))
	case "string":
		return v.Tag == VTStr
	case "array":
		return v.Tag == VTArray
	case "object":
		return v.Tag == VTObj
	}
	return false
}

func schemaNum(schema *MapObject, key string, line int) (float64, bool) {
	v, ok := schema.Get(key)
	if !ok {
		return 0, false
	}
	if v.Tag != VTNum {
		failAt(DiagTypeMismatch, line, "ValidateSchema: %q must be a number", key)
	}
	return v.Data.(float64), true
}

func addErr(errs *[]Value, format string, args ...any) {
	*errs = append(*errs, Str(fmt.Sprintf(format, args...)))
}
