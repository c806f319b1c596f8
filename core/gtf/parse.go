package gtf

import (
	"fmt"
	"strconv"
	"strings"

	perr "genoparse/core/errors"
	"genoparse/core/record"
)

// GTF column indices.
const (
	FieldSeqid = iota
	FieldSource
	FieldType
	FieldStart
	FieldEnd
	FieldScore
	FieldStrand
	FieldPhase
	FieldAttributes

	numFields
)

const transcriptKey = "transcript_id"

// ParseLine parses one tab-delimited feature line. The returned error is a
// *errors.ParseError without location; Reader fills in path and line.
func ParseLine(line string) (record.Annotation, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < numFields {
		return record.Annotation{}, lineError(perr.ErrFieldCount, "want %d tab-separated columns, got %d", numFields, len(cols))
	}
	start, err := strconv.Atoi(cols[FieldStart])
	if err != nil {
		return record.Annotation{}, lineError(perr.ErrCoordinate, "start %q is not an integer", cols[FieldStart])
	}
	end, err := strconv.Atoi(cols[FieldEnd])
	if err != nil {
		return record.Annotation{}, lineError(perr.ErrCoordinate, "end %q is not an integer", cols[FieldEnd])
	}
	if start > end {
		return record.Annotation{}, lineError(perr.ErrCoordinate, "start %d is after end %d", start, end)
	}
	if len(cols[FieldStrand]) != 1 || !record.Strand(cols[FieldStrand][0]).Valid() {
		return record.Annotation{}, lineError(perr.ErrStrand, "strand %q", cols[FieldStrand])
	}

	a := record.Annotation{
		Contig:  cols[FieldSeqid],
		Source:  cols[FieldSource],
		Feature: cols[FieldType],
		Start:   start,
		End:     end,
		Score:   cols[FieldScore],
		Strand:  record.Strand(cols[FieldStrand][0]),
		Frame:   cols[FieldPhase],
	}
	if err := parseAttributes(&a, cols[FieldAttributes]); err != nil {
		return record.Annotation{}, err
	}
	return a, nil
}

// parseAttributes fills GeneID, TranscriptID and Attributes from column 9.
//
// The first ';'-separated token is always the gene id. A remaining token
// whose first word contains '=' is a GFF3 key=value pair and keeps any
// spaces in its value. Other tokens are split on single spaces: two parts
// are key and value; with more parts (a leading space, or stray spaces
// inside) parts 1 and 2 are used; tokens with fewer than two parts are
// skipped. Surrounding double quotes are stripped from values.
func parseAttributes(a *record.Annotation, col string) error {
	tokens := strings.Split(col, ";")
	_, gene, ok := splitFirst(tokens[0])
	if !ok || gene == "" {
		return lineError(perr.ErrAttribute, "first attribute %q has no gene id value", tokens[0])
	}
	a.GeneID = gene
	a.TranscriptID = gene

	foundTranscript := false
	pairs := make([]record.Attribute, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		key, val, ok := splitToken(tok)
		if !ok {
			continue
		}
		if key == transcriptKey && !foundTranscript {
			a.TranscriptID = val
			foundTranscript = true
		}
		pairs = append(pairs, record.Attribute{Key: key, Value: val})
	}
	a.Attributes = record.NewAttributes(pairs...)
	return nil
}

// splitFirst splits the gene id token on its first space (or '=' for GFF3
// style) and strips quotes from the value.
func splitFirst(tok string) (key, val string, ok bool) {
	tok = strings.TrimSpace(tok)
	if k, v, found := cutAssign(tok); found {
		return k, unquote(v), true
	}
	if k, v, found := strings.Cut(tok, " "); found {
		return k, unquote(v), true
	}
	return tok, "", false
}

// cutAssign splits "key=value" when the first word of tok holds the '='.
func cutAssign(tok string) (key, val string, ok bool) {
	first, _, _ := strings.Cut(tok, " ")
	if !strings.Contains(first, "=") {
		return "", "", false
	}
	return strings.Cut(tok, "=")
}

func splitToken(tok string) (key, val string, ok bool) {
	if k, v, found := cutAssign(strings.TrimSpace(tok)); found {
		return k, unquote(v), k != ""
	}
	parts := strings.Split(tok, " ")
	switch {
	case len(parts) == 2:
		return parts[0], unquote(parts[1]), parts[0] != ""
	case len(parts) > 2:
		return parts[1], unquote(parts[2]), parts[1] != ""
	}
	return "", "", false
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func lineError(sentinel error, format string, a ...any) error {
	return &perr.ParseError{Format: "gtf", Message: fmt.Sprintf(format, a...), Err: sentinel}
}
