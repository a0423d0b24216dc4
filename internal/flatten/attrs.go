package flatten

import (
	"github.com/structflat/structflat/internal/decl"
	"github.com/structflat/structflat/internal/scan"
	"github.com/structflat/structflat/internal/token"
)

// strikeThroughAttributes consumes the propagation markers from decAttrs,
// appending each payload to the carried set, then prefixes decAttrs with the
// full carried set so every declaration below sees its ancestors' propagated
// attributes in ancestor-then-self order. The deprecated `strikethrough`
// alias still works but surfaces a deprecation diagnostic in the output.
func strikeThroughAttributes(decAttrs *[]decl.Attribute, strikeAttrs *[]decl.Attribute, out *Output) {
	var kept []decl.Attribute
	for _, attr := range *decAttrs {
		each := attr.PathIs(markerNamespace, "each")
		deprecated := attr.PathIsBare("strikethrough")
		if deprecated {
			reportStrikethroughDeprecated(out, attr.Span)
		}
		if !each && !deprecated {
			kept = append(kept, attr)
			continue
		}
		if attr.ValueKind != decl.AttrGroup {
			span := token.StreamSpan(attr.Value)
			if span == nil {
				sp := attr.Span
				span = &sp
			}
			out.report(span, "#["+markerNamespace+"::each …]: … must be a [group]")
			continue
		}
		// The payload tokens become the template's whole path; the template
		// serializes back to #[<payload>] on every descendant.
		*strikeAttrs = append(*strikeAttrs, decl.Attribute{
			Path: attr.Value,
			Span: attr.Span,
		})
	}

	*decAttrs = append(append([]decl.Attribute{}, *strikeAttrs...), kept...)
}

const strikethroughNotice = `
#[allow(dead_code)]
#[allow(non_camel_case_types)]
#[allow(non_snake_case)]
fn strikethrough_used() {
    #[deprecated(note = "The strikethrough attribute is deprecated. Use structflat::each instead.")]
    #[allow(non_upper_case_globals)]
    const _w: () = ();
    let _ = _w;
}
`

// reportStrikethroughDeprecated emits an always-unreachable marker function
// whose body trips a deprecation lint, so using the old attribute surfaces a
// compiler warning instead of breaking the build.
func reportStrikethroughDeprecated(out *Output, span token.Span) {
	toks, err := scan.Tokens("", strikethroughNotice)
	if err != nil {
		return
	}
	out.Append(respan(toks, span)...)
}

func respan(toks []token.Tree, span token.Span) []token.Tree {
	for i := range toks {
		toks[i].Span = span
		if toks[i].Kind == token.Group {
			toks[i].Tokens = respan(toks[i].Tokens, span)
		}
	}
	return toks
}
