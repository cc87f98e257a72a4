package hum

// Phase names one step of the analysis chain.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseTokenize
	PhaseIndex
	PhaseSpines
	PhaseLinks
	PhaseTracks
	PhaseNonNull
)

var phaseNames = [...]string{
	PhaseNone:     "none",
	PhaseTokenize: "tokenize",
	PhaseIndex:    "index",
	PhaseSpines:   "spines",
	PhaseLinks:    "links",
	PhaseTracks:   "tracks",
	PhaseNonNull:  "nonnull",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists the full chain in execution order.
func Phases() []Phase {
	return []Phase{PhaseTokenize, PhaseIndex, PhaseSpines, PhaseLinks, PhaseTracks, PhaseNonNull}
}

// RunPhase executes one phase. It refuses to run when the previous phase has
// not completed, so callers driving phases one by one (for tracing) get the
// same ordering guarantees as Analyze.
func (f *File) RunPhase(p Phase) bool {
	if p == PhaseNone || p > PhaseNonNull {
		return false
	}
	if p-1 > f.done {
		return false
	}
	var ok bool
	switch p {
	case PhaseTokenize:
		ok = f.tokenize()
	case PhaseIndex:
		ok = f.indexLines()
	case PhaseSpines:
		ok = f.analyzeSpines()
	case PhaseLinks:
		ok = f.analyzeLinks()
	case PhaseTracks:
		ok = f.analyzeTracks()
	case PhaseNonNull:
		if f.opts.SkipNonNull {
			ok = true
		} else {
			ok = f.analyzeNonNull()
		}
	}
	if !ok {
		f.valid = false
		f.done = p - 1
		return false
	}
	f.done = p
	return true
}

// Analyze re-tokenizes every line from its text and runs the whole chain.
// Token mutations not written back with SyncText are lost.
func (f *File) Analyze() bool {
	return f.AnalyzeFrom(PhaseTokenize)
}

// AnalyzeStructure keeps the current tokens and recomputes everything
// derived from them. Use it after token-level mutation.
func (f *File) AnalyzeStructure() bool {
	return f.AnalyzeFrom(PhaseIndex)
}

// AnalyzeFrom resets validity and runs the chain starting at p.
func (f *File) AnalyzeFrom(p Phase) bool {
	if p < PhaseTokenize {
		p = PhaseTokenize
	}
	if p-1 > f.done {
		p = f.done + 1
	}
	f.valid = true
	f.done = p - 1
	for phase := p; phase <= PhaseNonNull; phase++ {
		if !f.RunPhase(phase) {
			return false
		}
	}
	return f.valid
}
