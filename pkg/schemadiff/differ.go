package schemadiff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/schemaport/schemaport/pkg/compare"
	"github.com/schemaport/schemaport/pkg/consts"
	"github.com/schemaport/schemaport/pkg/schema"
	"github.com/schemaport/schemaport/pkg/utils"
)

type (
	// DiffKind classifies a difference between the two object sets.
	DiffKind string

	// Mode selects the comparison policy for objects present in both sets.
	Mode string

	// SchemaDifference describes one detected difference. It is never
	// mutated after creation.
	SchemaDifference struct {
		Kind             DiffKind
		ObjectType       schema.ObjectType
		ObjectName       string
		Schema           string
		SourceDefinition *string
		TargetDefinition *string
		Detail           []string
	}

	// Options controls filtering and comparison policy for Diff.
	Options struct {
		// Mode is the comparison policy; defaults to ModeStrict.
		Mode Mode

		// ExcludeSchemas lists schema names to skip on both sides.
		ExcludeSchemas []string

		// IncludeTypes is an object-type allow-list; empty means all types.
		IncludeTypes []schema.ObjectType

		// IncludeSystemSchemas disables the default exclusion of known
		// system schemas (pg_catalog, information_schema, pg_toast).
		IncludeSystemSchemas bool
	}
)

const (
	KindAdded    DiffKind = "added"
	KindRemoved  DiffKind = "removed"
	KindModified DiffKind = "modified"
)

const (
	// ModeStrict compares definition, owner, and size exactly.
	ModeStrict Mode = "strict"

	// ModeLenient compares only definitions, ignoring formatting-only
	// differences (whitespace runs, a trailing semicolon, letter case).
	ModeLenient Mode = "lenient"
)

// Diff compares the source and target object sets and returns the
// differences, sorted by object identity key for deterministic output.
//
// A key present only in source is Removed, only in target is Added, and
// present in both with differing attributes (per the mode) is Modified.
//
// Example usage:
//
//	differences, err := schemadiff.Diff(source.Objects, target.Objects, schemadiff.Options{
//	    Mode:           schemadiff.ModeLenient,
//	    ExcludeSchemas: []string{"audit"},
//	})
func Diff(source, target []schema.DatabaseObject, opts Options) ([]SchemaDifference, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeStrict
	}
	if mode != ModeStrict && mode != ModeLenient {
		return nil, errors.Errorf("unknown comparison mode %q", mode)
	}

	sourceByKey := keyObjects(filterObjects(source, opts))
	targetByKey := keyObjects(filterObjects(target, opts))

	keys := make([]schema.ObjectKey, 0, len(sourceByKey)+len(targetByKey))
	seen := make(map[schema.ObjectKey]bool, len(sourceByKey)+len(targetByKey))
	for key := range sourceByKey {
		keys = append(keys, key)
		seen[key] = true
	}
	for key := range targetByKey {
		if !seen[key] {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	differences := make([]SchemaDifference, 0, len(keys))
	for _, key := range keys {
		src, inSource := sourceByKey[key]
		tgt, inTarget := targetByKey[key]

		switch {
		case inSource && !inTarget:
			differences = append(differences, newDifference(KindRemoved, key, src, nil, nil))
		case !inSource && inTarget:
			differences = append(differences, newDifference(KindAdded, key, nil, tgt, nil))
		default:
			if detail := compareObjects(src, tgt, mode); len(detail) > 0 {
				differences = append(differences, newDifference(KindModified, key, src, tgt, detail))
			}
		}
	}

	return differences, nil
}

func newDifference(kind DiffKind, key schema.ObjectKey, src, tgt *schema.DatabaseObject, detail []string) SchemaDifference {
	d := SchemaDifference{
		Kind:       kind,
		ObjectType: key.Type,
		ObjectName: key.Name,
		Schema:     key.Schema,
		Detail:     detail,
	}
	if src != nil {
		d.SourceDefinition = utils.Ptr(src.Definition)
	}
	if tgt != nil {
		d.TargetDefinition = utils.Ptr(tgt.Definition)
	}
	return d
}

// compareObjects returns the list of differing attributes between two
// descriptors of the same object, empty when they compare equal under the
// mode.
func compareObjects(src, tgt *schema.DatabaseObject, mode Mode) []string {
	if mode == ModeLenient {
		if NormalizeDefinition(src.Definition) != NormalizeDefinition(tgt.Definition) {
			return []string{"definition changed"}
		}
		return nil
	}

	var detail []string
	if src.Definition != tgt.Definition {
		detail = append(detail, "definition changed")
	}
	if !compare.Pointers(src.Owner, tgt.Owner) {
		detail = append(detail, fmt.Sprintf("owner changed from %s to %s",
			describePtr(src.Owner), describePtr(tgt.Owner)))
	}
	if !compare.Pointers(src.SizeInBytes, tgt.SizeInBytes) {
		detail = append(detail, "size changed")
	}
	return detail
}

// NormalizeDefinition applies the lenient-mode normalization: whitespace runs
// collapse to single spaces, one trailing semicolon is stripped, the result
// is trimmed and lowercased.
func NormalizeDefinition(definition string) string {
	normalized := strings.Join(strings.Fields(definition), " ")
	normalized = strings.TrimSuffix(normalized, ";")
	return strings.ToLower(strings.TrimSpace(normalized))
}

func filterObjects(objects []schema.DatabaseObject, opts Options) []*schema.DatabaseObject {
	excluded := make(map[string]bool, len(opts.ExcludeSchemas)+len(consts.SystemSchemas))
	for _, name := range opts.ExcludeSchemas {
		excluded[name] = true
	}
	if !opts.IncludeSystemSchemas {
		for _, name := range consts.SystemSchemas {
			excluded[name] = true
		}
	}

	allowedTypes := make(map[schema.ObjectType]bool, len(opts.IncludeTypes))
	for _, t := range opts.IncludeTypes {
		allowedTypes[t] = true
	}

	filtered := make([]*schema.DatabaseObject, 0, len(objects))
	for i := range objects {
		o := &objects[i]
		if excluded[o.Schema] {
			continue
		}
		if len(allowedTypes) > 0 && !allowedTypes[o.Type] {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

func keyObjects(objects []*schema.DatabaseObject) map[schema.ObjectKey]*schema.DatabaseObject {
	byKey := make(map[schema.ObjectKey]*schema.DatabaseObject, len(objects))
	for _, o := range objects {
		byKey[o.Key()] = o
	}
	return byKey
}

func describePtr(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}

// Key returns the identity key of the object the difference describes.
func (d *SchemaDifference) Key() schema.ObjectKey {
	return schema.ObjectKey{Type: d.ObjectType, Schema: d.Schema, Name: d.ObjectName}
}
