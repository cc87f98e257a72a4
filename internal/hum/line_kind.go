package hum

// LineKind classifies a whole line.
type LineKind uint8

const (
	LineInvalid LineKind = iota
	LineEmpty
	LineGlobalComment
	LineReference
	LineExclusive
	LineTerminator
	LineInterpretation
	LineLocalComment
	LineBarline
	LineData
)

var lineKindNames = [...]string{
	LineInvalid:        "invalid",
	LineEmpty:          "empty",
	LineGlobalComment:  "global-comment",
	LineReference:      "reference",
	LineExclusive:      "exclusive",
	LineTerminator:     "terminator",
	LineInterpretation: "interpretation",
	LineLocalComment:   "local-comment",
	LineBarline:        "barline",
	LineData:           "data",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "invalid"
}

// HasSpines reports whether lines of this kind carry one token per spine.
func (k LineKind) HasSpines() bool {
	switch k {
	case LineExclusive, LineTerminator, LineInterpretation, LineLocalComment, LineBarline, LineData:
		return true
	}
	return false
}

// IsInterpretation covers every line whose fields start with '*'.
func (k LineKind) IsInterpretation() bool {
	return k == LineExclusive || k == LineTerminator || k == LineInterpretation
}

// classifyLine decides the line kind from its first field, refined by the
// remaining fields for exclusive and terminator lines.
func classifyLine(fields []Kind) LineKind {
	if len(fields) == 0 {
		return LineEmpty
	}
	switch first := fields[0]; first {
	case KindEmpty:
		if len(fields) == 1 {
			return LineEmpty
		}
		return LineData
	case KindReference:
		return LineReference
	case KindGlobalComment:
		return LineGlobalComment
	case KindLocalComment:
		return LineLocalComment
	case KindBarline:
		return LineBarline
	case KindData, KindNull:
		return LineData
	case KindExclusive:
		if allKind(fields, KindExclusive) {
			return LineExclusive
		}
		return LineInterpretation
	case KindTerminate:
		if allKind(fields, KindTerminate) {
			return LineTerminator
		}
		return LineInterpretation
	}
	return LineInterpretation
}

func allKind(fields []Kind, k Kind) bool {
	for _, f := range fields {
		if f != k {
			return false
		}
	}
	return true
}
