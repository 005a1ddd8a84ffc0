package boomerang

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("prg")
}

// typePlan describes the assignable fields of one struct type.
type typePlan struct {
	typeName string
	fields   map[string]fieldPlan // keyed by param name
	filtered []string             // param names never written to the store
}

// fieldPlan describes how to assign a single field.
type fieldPlan struct {
	index  []int  // reflect.Value.FieldByIndex access path
	name   string // param name
	goName string // Go field name for error messages
	access Access
	filter bool
}

// field returns the plan for a param name.
func (p *typePlan) field(name string) (fieldPlan, bool) {
	fp, ok := p.fields[name]
	return fp, ok
}

// plansFor returns the cached plan for T, scanning it on first use.
func plansFor[T any]() (*typePlan, error) {
	rt := reflect.TypeFor[T]()
	if plan, ok := cachedPlan(rt); ok {
		return plan, nil
	}
	if rt.Kind() != reflect.Struct {
		return nil, newConfigError(ErrUnsupportedType, "", rt.String())
	}
	return storePlan(rt, sentinel.Scan[T]())
}

// plansForType returns the plan for a runtime type, dereferencing pointers.
// The bool is false for types that are not structs.
func plansForType(rt reflect.Type) (*typePlan, bool, error) {
	for rt != nil && rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, false, nil
	}
	if plan, ok := cachedPlan(rt); ok {
		return plan, true, nil
	}
	plan, err := storePlan(rt, scanType(rt))
	if err != nil {
		return nil, true, err
	}
	return plan, true, nil
}

func storePlan(rt reflect.Type, meta sentinel.Metadata) (*typePlan, error) {
	plan, err := buildTypePlan(rt, meta)
	if err != nil {
		return nil, err
	}
	return cachePlan(rt, plan), nil
}

// buildTypePlan creates the plan for a struct type from its scanned metadata.
// Tagged fields of untagged embedded structs are promoted into the plan with
// their full index path. A name declared closer to the outer type shadows a
// promoted one.
func buildTypePlan(rt reflect.Type, meta sentinel.Metadata) (*typePlan, error) {
	plan := &typePlan{
		typeName: rt.String(),
		fields:   make(map[string]fieldPlan),
	}

	seen := map[reflect.Type]bool{rt: true}
	if err := buildFieldPlansRecursive(plan, rt, meta, nil, 0, seen); err != nil {
		return nil, err
	}

	return plan, nil
}

// buildFieldPlansRecursive adds the tagged fields of rt under parentIndex,
// then descends into its embedded structs.
func buildFieldPlansRecursive(plan *typePlan, rt reflect.Type, meta sentinel.Metadata, parentIndex []int, depth int, seen map[reflect.Type]bool) error {
	var embedded []reflect.StructField

	for _, field := range meta.Fields {
		sf := rt.FieldByIndex(field.Index)
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)

		tag, ok := field.Tags["prg"]
		if !ok {
			if sf.Anonymous {
				sf.Index = fullIndex
				embedded = append(embedded, sf)
			}
			continue
		}
		if tag == "-" {
			continue
		}

		fp, err := parseFieldTag(field.Name, tag)
		if err != nil {
			return err
		}

		if !sf.IsExported() {
			return newConfigError(ErrInvalidTag, field.Name, "unexported")
		}
		if _, dup := plan.fields[fp.name]; dup {
			if depth > 0 {
				continue
			}
			return newConfigError(ErrInvalidTag, field.Name, fp.name)
		}

		fp.index = fullIndex
		plan.fields[fp.name] = fp
		if fp.filter {
			plan.filtered = append(plan.filtered, fp.name)
		}
	}

	for _, sf := range embedded {
		et := sf.Type
		if et.Kind() == reflect.Ptr {
			et = et.Elem()
		}
		if !sf.IsExported() || et.Kind() != reflect.Struct || seen[et] {
			continue
		}

		seen[et] = true
		err := buildFieldPlansRecursive(plan, et, scanType(et), sf.Index, depth+1, seen)
		delete(seen, et)
		if err != nil {
			return err
		}
	}

	return nil
}

// parseFieldTag parses `prg:"{param}[,{access}][,filter]"`.
func parseFieldTag(goName, tag string) (fieldPlan, error) {
	parts := strings.Split(tag, ",")
	fp := fieldPlan{
		name:   strings.TrimSpace(parts[0]),
		goName: goName,
		access: AccessPublic,
	}
	if fp.name == "" {
		fp.name = goName
	}

	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
			continue
		case opt == "filter":
			fp.filter = true
		case IsValidAccess(Access(opt)):
			fp.access = Access(opt)
		default:
			return fieldPlan{}, newConfigError(ErrInvalidTag, goName, opt)
		}
	}

	return fp, nil
}

// scanType builds metadata for a type only known at runtime.
func scanType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tags := make(map[string]string)
		if val, ok := sf.Tag.Lookup("prg"); ok {
			tags["prg"] = val
		}

		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}

	return meta
}
