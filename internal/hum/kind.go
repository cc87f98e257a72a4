package hum

import "strings"

// Kind classifies a single token by its text.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindEmpty
	KindData
	KindNull // "."
	KindBarline
	KindLocalComment
	KindGlobalComment
	KindReference
	KindExclusive // "**name"
	KindTerminate // "*-"
	KindSplit     // "*^"
	KindMerge     // "*v"
	KindExchange  // "*x"
	KindAdd       // "*+"
	KindInterpretation
)

const (
	NullData           = "."
	NullInterpretation = "*"
	NullLocalComment   = "!"
	TerminateText      = "*-"
	SplitText          = "*^"
	MergeText          = "*v"
	ExchangeText       = "*x"
	AddText            = "*+"
)

var kindNames = [...]string{
	KindInvalid:        "invalid",
	KindEmpty:          "empty",
	KindData:           "data",
	KindNull:           "null",
	KindBarline:        "barline",
	KindLocalComment:   "local-comment",
	KindGlobalComment:  "global-comment",
	KindReference:      "reference",
	KindExclusive:      "exclusive",
	KindTerminate:      "terminate",
	KindSplit:          "split",
	KindMerge:          "merge",
	KindExchange:       "exchange",
	KindAdd:            "add",
	KindInterpretation: "interpretation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Classify returns the kind of a token text. Prefix precedence follows the
// line-level rules: comments first, then interpretations, barlines, data.
func Classify(text string) Kind {
	if text == "" {
		return KindEmpty
	}
	switch text[0] {
	case '!':
		switch {
		case strings.HasPrefix(text, "!!!"):
			return KindReference
		case strings.HasPrefix(text, "!!"):
			return KindGlobalComment
		}
		return KindLocalComment
	case '*':
		switch text {
		case TerminateText:
			return KindTerminate
		case SplitText:
			return KindSplit
		case MergeText:
			return KindMerge
		case ExchangeText:
			return KindExchange
		case AddText:
			return KindAdd
		}
		if strings.HasPrefix(text, "**") {
			return KindExclusive
		}
		return KindInterpretation
	case '=':
		return KindBarline
	}
	if text == NullData {
		return KindNull
	}
	return KindData
}

// IsManipulator reports whether the kind changes the spine layout.
// Exclusive interpretations count: they open new spines.
func (k Kind) IsManipulator() bool {
	switch k {
	case KindExclusive, KindTerminate, KindSplit, KindMerge, KindExchange, KindAdd:
		return true
	}
	return false
}

func (k Kind) IsInterpretation() bool {
	return k >= KindExclusive && k <= KindInterpretation
}

func (k Kind) IsData() bool {
	return k == KindData || k == KindNull
}

func (k Kind) IsComment() bool {
	return k == KindLocalComment || k == KindGlobalComment || k == KindReference
}

// IsSpineless reports kinds that occupy a whole line without spines.
func (k Kind) IsSpineless() bool {
	return k == KindGlobalComment || k == KindReference || k == KindEmpty
}
