package fuzztests

import (
	"strings"
	"testing"
)

const maxFuzzInput = 64 << 10 // 64 KiB

var seeds = [][]string{
	{"**kern", "4c", ".", "*-"},
	{"!!!COM: Bach", "**kern\t**kern", "*^\t*", "4c\t4e\t4g", "*v\t*v\t*", "=1\t=1", "*-\t*-"},
	{"**a\t**b", "*x\t*x", "1\t2", "*+\t*", "*\t**c\t*", "3\t4\t5", "*-\t*-\t*-"},
	{"**a", "1", "*-", "**b\t**c", ".\t2", "*-\t*-"},
	{"**a\t**b", "1\t.", "*v\t*v", ".", "*-"},
	{"**kern", "*^", "*^\t*", "4c\t.\t4e", "*v\t*v\t*", "*v\t*v", "*-"},
	{"**kern", "4c\t4d", "*-"},
	{"4c", "**kern", "*-"},
	{"**kern\t**text", "4c\thel-", "*x\t*", "*-\t*-"},
	{""},
}

func addSeeds(f *testing.F) {
	for _, lines := range seeds {
		text := strings.Join(lines, "\n")
		f.Add([]byte(text))
		f.Add([]byte(text + "\n"))
		f.Add([]byte(strings.ReplaceAll(text, "\n", "\r\n")))
	}
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
