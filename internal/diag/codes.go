package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Классификация строк и токенизация
	LinInfo               Code = 1000
	LinMisclassifiedField Code = 1001
	LinEmptyField         Code = 1002
	LinEmptyLine          Code = 1003
	LinUnknownKind        Code = 1004

	// Топология спайнов
	SpnInfo                  Code = 2000
	SpnDataBeforeExclusive   Code = 2001
	SpnFieldCountMismatch    Code = 2002
	SpnUnpairedExchange      Code = 2003
	SpnAddWithoutExclusive   Code = 2004
	SpnUnexpectedManipulator Code = 2005
	SpnMissingTerminator     Code = 2006
	SpnExclusiveWithoutSlot  Code = 2007

	// Сшивка строк
	LnkInfo           Code = 3000
	LnkLengthMismatch Code = 3001
	LnkAlignment      Code = 3002
	LnkNoTarget       Code = 3003

	IOLoadFileError Code = 4001

	// Номера треков
	TrkInfo         Code = 5000
	TrkMissingStart Code = 5001
	TrkMissingEnd   Code = 5002
	TrkBadSpineInfo Code = 5003

	// Мутации
	MutInfo          Code = 6000
	MutRowCount      Code = 6001
	MutTrackNotFound Code = 6002

	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		LinInfo:                  "Line information",
		LinMisclassifiedField:    "Field does not match the line kind",
		LinEmptyField:            "Empty field on a spine line",
		LinEmptyLine:             "Empty line",
		LinUnknownKind:           "Unrecognized line",
		SpnInfo:                  "Spine information",
		SpnDataBeforeExclusive:   "Data found before exclusive interpretation",
		SpnFieldCountMismatch:    "Field count does not match active spines",
		SpnUnpairedExchange:      "Unpaired spine exchange",
		SpnAddWithoutExclusive:   "Added spine is not followed by an exclusive interpretation",
		SpnUnexpectedManipulator: "Unexpected spine manipulator",
		SpnMissingTerminator:     "Spines are not terminated",
		SpnExclusiveWithoutSlot:  "Exclusive interpretation without an open spine slot",
		LnkInfo:                  "Link information",
		LnkLengthMismatch:        "Adjacent lines differ in length",
		LnkAlignment:             "Cannot stitch lines together",
		LnkNoTarget:              "Token has no successor to link to",
		IOLoadFileError:          "I/O load file error",
		TrkInfo:                  "Track information",
		TrkMissingStart:          "Track has no start token",
		TrkMissingEnd:            "Track has no terminator",
		TrkBadSpineInfo:          "Spine path has no track number",
		MutInfo:                  "Mutation information",
		MutRowCount:              "Data row count does not match line count",
		MutTrackNotFound:         "Target track not found on line",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LIN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SPN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TRK%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("MUT%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
