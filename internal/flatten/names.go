package flatten

import (
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/structflat/structflat/internal/decl"
	"github.com/structflat/structflat/internal/token"
)

// nameHints carries the structural path used to synthesize a name for an
// anonymous nested declaration: the enclosing declaration's name plus the
// variant and field names on the way down. Copied by value per field and per
// variant so sibling branches never see each other's context.
type nameHints struct {
	long        bool
	singular    bool
	parentName  string
	variantName string
	fieldName   string
}

// newNameHints builds the root hints for a declaration, consuming the naming
// mode markers from its attribute list. The modes apply to this declaration's
// subtree only.
func newNameHints(parentName string, attrs *[]decl.Attribute) nameHints {
	h := nameHints{parentName: parentName}
	kept := (*attrs)[:0]
	for _, attr := range *attrs {
		switch {
		case attr.PathIs(markerNamespace, "long_names"):
			h.long = true
		case attr.PathIs(markerNamespace, "singular_names"):
			h.singular = true
		default:
			kept = append(kept, attr)
		}
	}
	*attrs = kept
	return h
}

func (h nameHints) withFieldName(name string) nameHints {
	h.fieldName = name
	return h
}

func (h nameHints) withVariantName(name string) nameHints {
	h.variantName = name
	return h
}

// ident synthesizes the identifier for an anonymous declaration at this
// context. num is the positional index for tuple fields, -1 for named fields;
// the first tuple field at a context needs no disambiguator, later ones get
// their index appended so siblings cannot collide. Short mode picks the most
// specific available name; long mode concatenates the whole path.
func (h nameHints) ident(num int, span token.Span) token.Tree {
	fieldName := h.fieldName
	if h.singular && fieldName != "" {
		fieldName = inflection.Singular(fieldName)
	}
	suffix := ""
	if num > 0 {
		suffix = strconv.Itoa(num)
	}
	var parts []string
	if h.long {
		parts = []string{h.parentName, h.variantName, fieldName, suffix}
	} else {
		first := fieldName
		if first == "" {
			first = h.variantName
		}
		if first == "" {
			first = h.parentName
		}
		parts = []string{first, suffix}
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(pascalCase(p))
	}
	return token.NewIdent(b.String(), span)
}

// pascalCase capitalizes the first letter of each underscore-delimited word,
// keeping embedded consecutive capitals: `foo_bar` becomes `FooBar`,
// `HTTPReq` stays `HTTPReq`.
func pascalCase(s string) string {
	var b strings.Builder
	upperNext := true
	for _, c := range s {
		switch {
		case c == '_':
			upperNext = true
		case upperNext:
			b.WriteRune(toUpper(c))
			upperNext = false
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func toUpper(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
