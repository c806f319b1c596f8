package writers

import (
	"encoding/json"
	"io"

	"genoparse/core/record"
	"genoparse/internal/jsonlutil"
)

func init() { Register("jsonl", StartJSONLWriter) }

type sequenceJSON struct {
	Type   string  `json:"type"`
	ID     string  `json:"id"`
	Length int     `json:"length"`
	GC     float64 `json:"gc"`
	Seq    string  `json:"sequence"`
}

type fastqJSON struct {
	sequenceJSON
	Quality string                `json:"quality"`
	Header  record.IlluminaHeader `json:"header"`
}

type attributeJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type annotationJSON struct {
	Type         string          `json:"type"`
	Contig       string          `json:"contig"`
	Source       string          `json:"source"`
	Feature      string          `json:"feature"`
	Start        int             `json:"start"`
	End          int             `json:"end"`
	Score        string          `json:"score"`
	Strand       string          `json:"strand"`
	Frame        string          `json:"frame"`
	GeneID       string          `json:"gene_id"`
	TranscriptID string          `json:"transcript_id"`
	Attributes   []attributeJSON `json:"attributes"`
}

// toWire converts a record to its JSON shape. Attributes are a list so their
// file order survives.
func toWire(rec any) (any, error) {
	switch r := rec.(type) {
	case record.Sequence:
		return sequenceJSON{Type: "fasta", ID: r.ID, Length: r.Length, GC: r.GC, Seq: r.Seq}, nil
	case record.Fastq:
		return fastqJSON{
			sequenceJSON: sequenceJSON{Type: "fastq", ID: r.ID, Length: r.Length, GC: r.GC, Seq: r.Seq},
			Quality:      r.Quality,
			Header:       r.Header,
		}, nil
	case record.Annotation:
		pairs := r.Attributes.Pairs()
		attrs := make([]attributeJSON, len(pairs))
		for i, kv := range pairs {
			attrs[i] = attributeJSON(kv)
		}
		return annotationJSON{
			Type: "gtf", Contig: r.Contig, Source: r.Source, Feature: r.Feature,
			Start: r.Start, End: r.End, Score: r.Score, Strand: r.Strand.String(), Frame: r.Frame,
			GeneID: r.GeneID, TranscriptID: r.TranscriptID, Attributes: attrs,
		}, nil
	}
	return nil, unsupported("jsonl", rec)
}

// StartJSONLWriter streams each record as one JSON line. header is ignored.
func StartJSONLWriter(out io.Writer, _ bool, bufSize int) (chan<- any, <-chan error) {
	return jsonlutil.Start[any](out, bufSize,
		func(enc *json.Encoder, rec any) error {
			v, err := toWire(rec)
			if err != nil {
				return err
			}
			return enc.Encode(v)
		},
		IsBrokenPipe,
	)
}
