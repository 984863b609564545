package model

import "math"

type NoteLength string

const (
	NoteLengthWhole              NoteLength = "whole"
	NoteLengthHalf               NoteLength = "half"
	NoteLengthQuarter            NoteLength = "quarter"
	NoteLengthEighth             NoteLength = "eighth"
	NoteLengthSixteenth          NoteLength = "sixteenth"
	NoteLengthThirtySecond       NoteLength = "thirtysecond"
	NoteLengthSixtyFourth        NoteLength = "sixtyfourth"
	NoteLength128th              NoteLength = "hundredtwentyeighth"
	NoteLength256th              NoteLength = "twohundredfiftysixth"
	NoteLengthDottedWhole        NoteLength = "dottedwhole"
	NoteLengthDottedHalf         NoteLength = "dottedhalf"
	NoteLengthDottedQuarter      NoteLength = "dottedquarter"
	NoteLengthDottedEighth       NoteLength = "dottedeighth"
	NoteLengthDottedSixteenth    NoteLength = "dottedsixteenth"
	NoteLengthDottedThirtySecond NoteLength = "dottedthirtysecond"
	NoteLengthDottedSixtyFourth  NoteLength = "dottedsixtyfourth"
	NoteLengthDotted128th        NoteLength = "dottedhundredtwentyeighth"
	NoteLengthDotted256th        NoteLength = "dottedtwohundredfiftysixth"
	NoteLengthComplex            NoteLength = "complex"
)

type canonicalLength struct {
	length   NoteLength
	quarters float64
}

// Enumeration order matters: nearest-length ties resolve to the earlier entry.
var canonicalLengths = []canonicalLength{
	{NoteLengthWhole, 4},
	{NoteLengthHalf, 2},
	{NoteLengthQuarter, 1},
	{NoteLengthEighth, 0.5},
	{NoteLengthSixteenth, 0.25},
	{NoteLengthThirtySecond, 0.125},
	{NoteLengthSixtyFourth, 0.0625},
	{NoteLength128th, 0.03125},
	{NoteLength256th, 0.015625},
	{NoteLengthDottedWhole, 6},
	{NoteLengthDottedHalf, 3},
	{NoteLengthDottedQuarter, 1.5},
	{NoteLengthDottedEighth, 0.75},
	{NoteLengthDottedSixteenth, 0.375},
	{NoteLengthDottedThirtySecond, 0.1875},
	{NoteLengthDottedSixtyFourth, 0.09375},
	{NoteLengthDotted128th, 0.046875},
	{NoteLengthDotted256th, 0.0234375},
}

const lengthEpsilon = 1e-9

// NoteLengthFromQuarters maps a quarter-length onto its exact canonical
// category, or NoteLengthComplex when the duration is irregular.
func NoteLengthFromQuarters(q float64) NoteLength {
	for _, c := range canonicalLengths {
		if math.Abs(c.quarters-q) < lengthEpsilon {
			return c.length
		}
	}
	return NoteLengthComplex
}

// NearestNoteLength picks the canonical category closest to q by absolute
// quarter-length distance, returning it with its canonical quarter-length.
// Ties go to the first entry in enumeration order.
func NearestNoteLength(q float64) (NoteLength, float64) {
	best := canonicalLengths[0]
	bestDist := math.Abs(best.quarters - q)
	for _, c := range canonicalLengths[1:] {
		if d := math.Abs(c.quarters - q); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best.length, best.quarters
}
